package exchange

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"

	"github.com/RedstoneDaedalus/snekfetch"
	"github.com/RedstoneDaedalus/snekfetch/input"
	"github.com/pkg/errors"
)

// BuildRequest resolves every file reference in the input and turns it into
// an unstarted engine request.
func BuildRequest(client *snekfetch.Client, in *input.Input, options *Options) (*snekfetch.Request, error) {
	req, err := client.New(in.Method, in.URL.String())
	if err != nil {
		return nil, err
	}

	for _, field := range in.Parameters {
		value, err := resolveFieldValue(field)
		if err != nil {
			return nil, err
		}
		req.Query(field.Name, string(value))
	}

	// The body goes first so that an explicit Content-Type item wins.
	if err := applyBody(req, in); err != nil {
		return nil, err
	}

	for _, field := range in.Header.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return nil, err
		}
		req.Set(field.Name, string(value))
	}

	if options.Auth.Enabled && !req.Header().Has("Authorization") {
		req.Set("Authorization", "Basic "+basicCredentials(options.Auth))
	}
	return req, nil
}

func basicCredentials(auth AuthOptions) string {
	return base64.StdEncoding.EncodeToString([]byte(auth.UserName + ":" + auth.Password))
}

func applyBody(req *snekfetch.Request, in *input.Input) error {
	switch in.Body.BodyType {
	case input.EmptyBody:
		return nil
	case input.JSONBody:
		return applyJSONBody(req, in)
	case input.FormBody:
		if len(in.Body.Files) > 0 {
			return applyMultipartBody(req, in)
		}
		return applyFormBody(req, in)
	case input.RawBody:
		req.Send(in.Body.Raw).Set("Content-Type", "application/json")
		return nil
	default:
		return errors.Errorf("unknown body type: %v", in.Body.BodyType)
	}
}

func applyJSONBody(req *snekfetch.Request, in *input.Input) error {
	obj := map[string]interface{}{}
	for _, field := range in.Body.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return err
		}
		obj[field.Name] = string(value)
	}
	for _, field := range in.Body.RawJSONFields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return err
		}
		var v interface{}
		if err := json.Unmarshal(value, &v); err != nil {
			return errors.Wrapf(err, "parsing JSON value of '%s'", field.Name)
		}
		obj[field.Name] = v
	}
	req.SendJSON(obj)
	return nil
}

func applyFormBody(req *snekfetch.Request, in *input.Input) error {
	form := url.Values{}
	for _, field := range in.Body.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return err
		}
		form.Add(field.Name, string(value))
	}
	req.SendString(form.Encode()).Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	return nil
}

func applyMultipartBody(req *snekfetch.Request, in *input.Input) error {
	for _, field := range in.Body.Fields {
		value, err := resolveFieldValue(field)
		if err != nil {
			return err
		}
		req.Attach(field.Name, value, "")
	}
	for _, file := range in.Body.Files {
		data, err := resolveFieldValue(file)
		if err != nil {
			return err
		}
		filename := ""
		if file.IsFile {
			filename = filepath.Base(file.Value)
		}
		req.Attach(file.Name, data, filename)
	}
	return nil
}

func resolveFieldValue(field input.Field) ([]byte, error) {
	if !field.IsFile {
		return []byte(field.Value), nil
	}
	data, err := os.ReadFile(field.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "reading field value of '%s'", field.Name)
	}
	return data, nil
}
