package param

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(d)
	})
}

// Binding query parameters of GET requests (schema tags), json body otherwise
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet || r.Method == http.MethodDelete {
		return decoder.Decode(v, r.URL.Query())
	}

	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	return json.NewDecoder(r.Body).Decode(v)
}
