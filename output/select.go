package output

import (
	"github.com/RedstoneDaedalus/snekfetch"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Select returns the value at path in the JSON body of res. Strings come
// back unquoted, everything else as raw JSON.
func Select(res *snekfetch.Response, path string) (string, error) {
	if !gjson.ValidBytes(res.Raw) {
		return "", errors.New("--select needs a JSON response body")
	}
	result := res.Lookup(path)
	if !result.Exists() {
		return "", errors.Errorf("nothing found at '%s'", path)
	}
	if result.Type == gjson.String {
		return result.Str, nil
	}
	return result.Raw, nil
}
