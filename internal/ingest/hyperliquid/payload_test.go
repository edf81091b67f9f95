package hyperliquid

import (
	"encoding/json"
	"testing"
)

func TestParseQuoteBook(t *testing.T) {
	payload := []byte(`{"channel":"l2Book","data":{"coin":"BTC","time":1700000000123,"levels":[[{"px":"100.3","sz":"1.5","n":3},{"px":"100.2","sz":"2","n":1}],[{"px":"100.8","sz":"0.7","n":2}]]}}`)

	var msg BookMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	q, ok := ParseQuote(msg, 1700000000500)
	if !ok {
		t.Fatal("expected a quote")
	}
	if q.TsMs != 1700000000500 {
		t.Fatalf("timestamp mismatch: got %d", q.TsMs)
	}
	if q.BidPx != 100.3 || q.BidSz != 1.5 {
		t.Fatalf("bid mismatch: px=%v sz=%v", q.BidPx, q.BidSz)
	}
	if q.AskPx != 100.8 || q.AskSz != 0.7 {
		t.Fatalf("ask mismatch: px=%v sz=%v", q.AskPx, q.AskSz)
	}
}

func TestParseQuoteNumericLevels(t *testing.T) {
	// Some venues send px/sz as bare numbers instead of strings.
	payload := []byte(`{"channel":"l2Book","data":{"coin":"BTC","time":1,"levels":[[{"px":100.3,"sz":1.5,"n":1}],[{"px":100.8,"sz":0.7,"n":1}]]}}`)

	var msg BookMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	q, ok := ParseQuote(msg, 2)
	if !ok {
		t.Fatal("expected a quote")
	}
	if q.BidPx != 100.3 || q.AskPx != 100.8 {
		t.Fatalf("price mismatch: bid=%v ask=%v", q.BidPx, q.AskPx)
	}
}

func TestParseQuoteDrops(t *testing.T) {
	testCases := []struct {
		desc    string
		payload string
	}{
		{"wrong channel", `{"channel":"subscriptionResponse","data":{}}`},
		{"missing sides", `{"channel":"l2Book","data":{"coin":"BTC","levels":[]}}`},
		{"one side only", `{"channel":"l2Book","data":{"coin":"BTC","levels":[[{"px":"1","sz":"1","n":1}]]}}`},
		{"empty bids", `{"channel":"l2Book","data":{"coin":"BTC","levels":[[],[{"px":"1","sz":"1","n":1}]]}}`},
		{"empty asks", `{"channel":"l2Book","data":{"coin":"BTC","levels":[[{"px":"1","sz":"1","n":1}],[]]}}`},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			var msg BookMessage
			if err := json.Unmarshal([]byte(tc.payload), &msg); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if _, ok := ParseQuote(msg, 0); ok {
				t.Fatal("incomplete snapshot should be dropped")
			}
		})
	}
}

func TestEndpoint(t *testing.T) {
	if Endpoint(false) != "wss://api.hyperliquid.xyz/ws" {
		t.Fatalf("mainnet endpoint mismatch: %s", Endpoint(false))
	}
	if Endpoint(true) != "wss://api.hyperliquid-testnet.xyz/ws" {
		t.Fatalf("testnet endpoint mismatch: %s", Endpoint(true))
	}
}
