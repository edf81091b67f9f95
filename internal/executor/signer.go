package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"

	"main/pkg/exception"
)

// SignerFunc adapts a plain function to the Signer interface.
type SignerFunc func(ctx context.Context, action any, nonce int64) (json.RawMessage, error)

func (f SignerFunc) Sign(ctx context.Context, action any, nonce int64) (json.RawMessage, error) {
	return f(ctx, action, nonce)
}

// RemoteSigner delegates signature construction to a local signing sidecar
// that holds the wallet key. Credential and signing mechanics never enter
// this process.
type RemoteSigner struct {
	url    string
	client *http.Client
}

// NewRemoteSigner builds a signer client for the given sidecar URL.
func NewRemoteSigner(url string, client *http.Client) (*RemoteSigner, error) {
	if url == "" {
		return nil, exception.ErrNilSigner
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RemoteSigner{url: url, client: client}, nil
}

type signRequest struct {
	Action any   `json:"action"`
	Nonce  int64 `json:"nonce"`
}

type signResponse struct {
	Signature json.RawMessage `json:"signature"`
	Error     string          `json:"error"`
}

// Sign posts the action to the sidecar and returns the signature blob.
func (s *RemoteSigner) Sign(ctx context.Context, action any, nonce int64) (json.RawMessage, error) {
	if s == nil {
		return nil, exception.ErrNilSigner
	}

	body, err := sonic.ConfigFastest.Marshal(signRequest{Action: action, Nonce: nonce})
	if err != nil {
		return nil, errors.Wrap(err, "marshal sign request")
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(r)
	if err != nil {
		return nil, errors.Wrap(err, "call signer")
	}
	defer resp.Body.Close()

	var out signResponse
	if err := sonic.ConfigFastest.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode signer response")
	}
	if resp.StatusCode != http.StatusOK || out.Error != "" {
		return nil, errors.Wrapf(exception.ErrInternal, "signer http %d: %s", resp.StatusCode, out.Error)
	}
	return out.Signature, nil
}
