// Package xjson is the module's single JSON import site. Callers alias it as
// json; swapping the underlying codec never touches them.
package xjson

import (
	gjson "github.com/goccy/go-json"
)

func Marshal(v interface{}) ([]byte, error) {
	return gjson.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return gjson.Unmarshal(data, v)
}
