package i18n

// builtin holds the messages for issue codes shipped with the engine.
var builtin = map[string]map[string]string{
	"en": {
		"error.expected_string":              "Expected a string",
		"error.expected_number":              "Expected a number",
		"error.expected_integer":             "Expected an integer",
		"error.expected_boolean":             "Expected a boolean",
		"error.expected_list":                "Expected a list",
		"error.expected_object":              "Expected an object",
		"error.missing_field":                "Required field is missing",
		"error.invalid_empty_string":         "Cannot be empty",
		"error.invalid_enum_option":          "Invalid option \"%0%\"",
		"error.invalid_key":                  "Invalid key \"%0%\"",
		"error.invalid_number_range.smaller": "Value %0% is smaller than the minimum %1%",
		"error.invalid_number_range.larger":  "Value %0% is larger than the maximum %1%",
		"error.invalid_number_range.between": "Value %0% is outside the range %1% to %2%",
		"error.invalid_list_range.exact":     "List has %0% elements, expected exactly %1%",
		"error.invalid_list_range.between":   "List has %0% elements, expected between %1% and %2%",
		"error.invalid_list_range.smaller":   "List has %0% elements, expected at least %1%",
		"error.invalid_list_range.larger":    "List has %0% elements, expected at most %1%",
	},
	"ja": {
		"error.expected_string":          "文字列が必要です",
		"error.expected_number":          "数値が必要です",
		"error.expected_integer":         "整数が必要です",
		"error.expected_boolean":         "真偽値が必要です",
		"error.expected_list":            "リストが必要です",
		"error.expected_object":          "オブジェクトが必要です",
		"error.missing_field":            "必須フィールドがありません",
		"error.invalid_empty_string":     "空にはできません",
		"error.invalid_enum_option":      "不正な選択肢です \"%0%\"",
		"error.invalid_key":              "不正なキーです \"%0%\"",
		"error.invalid_list_range.exact": "要素数 %0% (ちょうど %1% 個必要です)",
	},
}
