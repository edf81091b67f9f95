package executor

import "encoding/json"

type orderAction struct {
	Type     string      `json:"type"`
	Orders   []wireOrder `json:"orders"`
	Grouping string      `json:"grouping"`
}

type wireOrder struct {
	Asset      int       `json:"a"`
	IsBuy      bool      `json:"b"`
	Price      string    `json:"p"`
	Size       string    `json:"s"`
	ReduceOnly bool      `json:"r"`
	Type       orderType `json:"t"`
}

type orderType struct {
	Limit limitType `json:"limit"`
}

type limitType struct {
	Tif string `json:"tif"`
}

type cancelAction struct {
	Type    string       `json:"type"`
	Cancels []wireCancel `json:"cancels"`
}

type wireCancel struct {
	Asset   int   `json:"a"`
	OrderID int64 `json:"o"`
}

type exchangeRequest struct {
	Action    any             `json:"action"`
	Nonce     int64           `json:"nonce"`
	Signature json.RawMessage `json:"signature"`
}

type exchangeResponse struct {
	Status   string `json:"status"`
	Response struct {
		Type string `json:"type"`
		Data struct {
			Statuses []orderStatusEntry `json:"statuses"`
		} `json:"data"`
	} `json:"response"`
}

type orderStatusEntry struct {
	Resting *struct {
		Oid int64 `json:"oid"`
	} `json:"resting"`
	Filled *struct {
		Oid     int64  `json:"oid"`
		TotalSz string `json:"totalSz"`
		AvgPx   string `json:"avgPx"`
	} `json:"filled"`
	Error string `json:"error"`
}

type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user,omitempty"`
	Oid  int64  `json:"oid,omitempty"`
}

type orderStatusResponse struct {
	Status string `json:"status"`
	Order  struct {
		Status string `json:"status"`
		Order  struct {
			Oid     int64  `json:"oid"`
			Side    string `json:"side"`
			LimitPx string `json:"limitPx"`
			Sz      string `json:"sz"`
		} `json:"order"`
	} `json:"order"`
}

type clearinghouseState struct {
	AssetPositions []json.RawMessage `json:"assetPositions"`
	MarginSummary  json.RawMessage   `json:"marginSummary"`
	Withdrawable   string            `json:"withdrawable"`
}
