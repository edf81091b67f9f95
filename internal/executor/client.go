package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/pkg/exception"
)

const (
	_mainnetBaseUrl = "https://api.hyperliquid.xyz"
	_testnetBaseUrl = "https://api.hyperliquid-testnet.xyz"

	_requestTimeout = 15 * time.Second
)

// Signer produces the signature blob for an exchange action. Credential and
// signing mechanics live outside this package.
type Signer interface {
	Sign(ctx context.Context, action any, nonce int64) (json.RawMessage, error)
}

// Config describes the execution account and venue selection.
type Config struct {
	Testnet bool
	Address string
	Coin    string
	Asset   int
	Signer  Signer
	Client  *http.Client
	BaseURL string
}

// Client talks to the venue's REST endpoints for one trading account.
type Client struct {
	cfg    Config
	base   string
	client *http.Client
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Address == "" {
		return nil, exception.ErrMissingCredentials
	}
	if cfg.Signer == nil {
		return nil, exception.ErrNilSigner
	}
	base := cfg.BaseURL
	if base == "" {
		base = _mainnetBaseUrl
		if cfg.Testnet {
			base = _testnetBaseUrl
		}
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Client{cfg: cfg, base: base, client: client}, nil
}

// RoundLimitPrice truncates a price to the venue's rule of at most five
// significant figures, preventing tick-size rejections.
func RoundLimitPrice(px float64) float64 {
	if px == 0 {
		return 0
	}
	ndigits := -int(math.Floor(math.Log10(math.Abs(px)))) + 4
	pow := math.Pow(10, float64(ndigits))
	return math.Round(px*pow) / pow
}

// PlaceLimit submits a GTC limit order (ALO when postOnly) and returns the
// venue order id. A per-order rejection yields id 0 with a nil error; the
// caller treats that as a retryable failed placement.
func (c *Client) PlaceLimit(ctx context.Context, isBuy bool, px, sz float64, postOnly bool) (int64, error) {
	if c == nil {
		return 0, exception.ErrNilInstance
	}
	tif := "Gtc"
	if postOnly {
		tif = "Alo"
	}
	px = RoundLimitPrice(px)
	action := orderAction{
		Type: "order",
		Orders: []wireOrder{{
			Asset: c.cfg.Asset,
			IsBuy: isBuy,
			Price: strconv.FormatFloat(px, 'f', -1, 64),
			Size:  strconv.FormatFloat(sz, 'f', -1, 64),
			Type:  orderType{Limit: limitType{Tif: tif}},
		}},
		Grouping: "na",
	}

	var resp exchangeResponse
	if err := c.postExchange(ctx, action, &resp); err != nil {
		return 0, err
	}
	statuses := resp.Response.Data.Statuses
	if len(statuses) == 0 {
		return 0, nil
	}
	entry := statuses[0]
	switch {
	case entry.Resting != nil:
		return entry.Resting.Oid, nil
	case entry.Filled != nil:
		return entry.Filled.Oid, nil
	case entry.Error != "":
		logs.Errorf("limit order rejected: %s", entry.Error)
		return 0, nil
	default:
		return 0, nil
	}
}

// CancelOrder removes a resting order. Best effort; the venue stays the
// source of truth for whether the order still exists.
func (c *Client) CancelOrder(ctx context.Context, oid int64) error {
	if c == nil {
		return exception.ErrNilInstance
	}
	action := cancelAction{
		Type:    "cancel",
		Cancels: []wireCancel{{Asset: c.cfg.Asset, OrderID: oid}},
	}
	var resp exchangeResponse
	return c.postExchange(ctx, action, &resp)
}

// OrderStatus returns the venue's status string for an order, or "" when
// the order is unknown.
func (c *Client) OrderStatus(ctx context.Context, oid int64) (string, error) {
	if c == nil {
		return "", exception.ErrNilInstance
	}
	var resp orderStatusResponse
	if err := c.postInfo(ctx, infoRequest{Type: "orderStatus", User: c.cfg.Address, Oid: oid}, &resp); err != nil {
		return "", err
	}
	if resp.Status != "" && resp.Status != "order" {
		return resp.Status, nil
	}
	return resp.Order.Status, nil
}

// ValidateAccount checks that the account exists on the selected network.
func (c *Client) ValidateAccount(ctx context.Context) (bool, error) {
	if c == nil {
		return false, exception.ErrNilInstance
	}
	var state clearinghouseState
	err := c.postInfo(ctx, infoRequest{Type: "clearinghouseState", User: c.cfg.Address}, &state)
	if err != nil {
		if isMissingAccountText(err.Error()) {
			return false, nil
		}
		return false, err
	}
	return state.AssetPositions != nil, nil
}

// AllMids fetches the venue's mid prices, keyed by coin.
func (c *Client) AllMids(ctx context.Context) (map[string]string, error) {
	if c == nil {
		return nil, exception.ErrNilInstance
	}
	mids := make(map[string]string)
	if err := c.postInfo(ctx, infoRequest{Type: "allMids"}, &mids); err != nil {
		return nil, err
	}
	return mids, nil
}

func (c *Client) postExchange(ctx context.Context, action any, out *exchangeResponse) error {
	nonce := time.Now().UnixMilli()
	signature, err := c.cfg.Signer.Sign(ctx, action, nonce)
	if err != nil {
		return errors.Wrap(err, "sign action")
	}

	body, err := sonic.ConfigFastest.Marshal(exchangeRequest{
		Action:    action,
		Nonce:     nonce,
		Signature: signature,
	})
	if err != nil {
		return errors.Wrap(err, "marshal exchange request")
	}

	raw, err := c.post(ctx, "/exchange", body)
	if err != nil {
		return err
	}

	var probe struct {
		Status   string          `json:"status"`
		Response json.RawMessage `json:"response"`
	}
	if err := sonic.ConfigFastest.Unmarshal(raw, &probe); err != nil {
		return errors.Wrap(exception.ErrOrderDecodeResponseBody, err.Error())
	}
	if probe.Status == "err" {
		msg := string(probe.Response)
		if isMissingAccountText(msg) {
			return errors.Wrapf(exception.ErrAccountNotInitialized,
				"account %s; do one trade in the venue UI on this network first", c.cfg.Address)
		}
		return errors.Wrap(exception.ErrOrderVenueRejected, msg)
	}
	if err := sonic.ConfigFastest.Unmarshal(raw, out); err != nil {
		return errors.Wrap(exception.ErrOrderDecodeResponseBody, err.Error())
	}
	return nil
}

func (c *Client) postInfo(ctx context.Context, req infoRequest, out any) error {
	body, err := sonic.ConfigFastest.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "marshal info request")
	}
	raw, err := c.post(ctx, "/info", body)
	if err != nil {
		return err
	}
	if err := sonic.ConfigFastest.Unmarshal(raw, out); err != nil {
		return errors.Wrap(exception.ErrOrderDecodeResponseBody, err.Error())
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, _requestTimeout)
	defer cancel()

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(exception.ErrOrderVenueRejected, "http %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

func isMissingAccountText(msg string) bool {
	return strings.Contains(msg, "does not exist") || strings.Contains(msg, "User not found")
}
