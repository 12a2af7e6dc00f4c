package main

import (
	"encoding/json"
	"fmt"
	"io"

	"recipe-catalog/internal/pkg/common"

	"gopkg.in/yaml.v3"
)

// 輸出格式
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeOutput 依格式輸出，YAML 使用與 JSON 相同的 camelCase 鍵名
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case formatYAML:
		data, err := common.ToJSON(v)
		if err != nil {
			return err
		}
		// JSON 是合法的 YAML，先解回通用結構再輸出區塊格式
		var generic any
		if err := yaml.Unmarshal([]byte(data), &generic); err != nil {
			return err
		}
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(generic); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}
