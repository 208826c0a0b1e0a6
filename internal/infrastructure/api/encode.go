package api

import (
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/damon-houk/fx-rate-client/internal/domain/entity"
)

// encodeQuery flattens request data into query values. Slices become repeated
// keys, nil values are skipped and nested maps or structs are rejected.
func encodeQuery(data entity.QueryParam) (url.Values, error) {
	values := url.Values{}

	for key, value := range data {
		if value == nil {
			continue
		}

		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if _, isBytes := value.([]byte); isBytes {
				values.Add(key, string(value.([]byte)))
				continue
			}
			for i := 0; i < rv.Len(); i++ {
				elem := rv.Index(i).Interface()
				if elem == nil {
					continue
				}
				s, err := formatScalar(key, elem)
				if err != nil {
					return nil, err
				}
				values.Add(key, s)
			}
		default:
			s, err := formatScalar(key, value)
			if err != nil {
				return nil, err
			}
			values.Add(key, s)
		}
	}

	return values, nil
}

func formatScalar(key string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case time.Time:
		return v.Format("2006-01-02"), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array, reflect.Func, reflect.Chan:
		return "", fmt.Errorf("unsupported value for query key %q: %T", key, value)
	}

	return fmt.Sprint(value), nil
}
