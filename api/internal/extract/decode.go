package extract

import (
	"encoding/json"
	"errors"

	"dolfin-bot/api/internal/util"
)

// ErrUnusable marks a model response that is not the expected JSON object.
// The extraction must not reach normalization in that case.
var ErrUnusable = errors.New("extract: model response is not a usable invoice")

type envelope struct {
	Data *RawInvoice `json:"data"`
}

// Decode parses the model text into a RawInvoice. It tolerates markdown code
// fences and surrounding prose but not a missing "data" object.
func Decode(text string) (RawInvoice, error) {
	s := util.StripCodeFences(text)
	obj, ok := util.ExtractJSONObject(s)
	if !ok {
		return RawInvoice{}, ErrUnusable
	}
	var env envelope
	if err := json.Unmarshal([]byte(obj), &env); err != nil || env.Data == nil {
		return RawInvoice{}, ErrUnusable
	}
	return *env.Data, nil
}
