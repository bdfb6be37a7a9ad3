package request_models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type SmsIngestRequest struct {
	Sender    string          `json:"sender"`
	Message   string          `json:"message"`
	Timestamp *LooseTimestamp `json:"timestamp"`
}

// LooseTimestamp takes a JSON string or a number (epoch milliseconds). Other
// values decode to "" so the SMS is still accepted with its receive time.
type LooseTimestamp string

func (t *LooseTimestamp) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		*t = ""
		return nil
	}

	switch x := v.(type) {
	case string:
		*t = LooseTimestamp(x)
	case json.Number:
		if ms, err := x.Int64(); err == nil {
			*t = LooseTimestamp(strconv.FormatInt(ms, 10))
		} else if f, err := x.Float64(); err == nil {
			*t = LooseTimestamp(strconv.FormatInt(int64(f), 10))
		} else {
			*t = ""
		}
	default:
		*t = ""
	}
	return nil
}
