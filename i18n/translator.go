package i18n

import "strings"

// Translator retrieves localized messages for message codes.
// data provides optional values to embed in the message (for example,
// "key" or "ref").
type Translator interface {
	Message(code string, data map[string]string) string
}

// Message codes used across the compiler and the form core.
const (
	MsgExpectedInteger = "expected_integer"
	MsgExpectedNumber  = "expected_number"
	MsgEmptyKey        = "empty_key"
	MsgDuplicateKey    = "duplicate_key"
	MsgOneOfRequired   = "oneof_required"
	MsgAnyOfRequired   = "anyof_required"
	MsgVariantInactive = "variant_inactive"
	MsgNestedArray     = "nested_array"
	MsgArrayOfMaps     = "array_of_maps"
	MsgEmptyTuple      = "empty_tuple"
	MsgMissingItems    = "missing_items"
	MsgUnresolvedRef   = "unresolved_ref"
	MsgExternalRef     = "external_ref"
	MsgCyclicRef       = "cyclic_ref"
	MsgRootNotObject   = "root_not_object"
	MsgInvalidElement  = "invalid_element"
	MsgRequiredField   = "required_field"
)

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		MsgExpectedInteger: "expected integer",
		MsgExpectedNumber:  "expected number",
		MsgEmptyKey:        "key cannot be empty",
		MsgDuplicateKey:    "duplicate key '{key}'",
		MsgOneOfRequired:   "oneOf requires a selected variant",
		MsgAnyOfRequired:   "anyOf requires at least one active variant",
		MsgVariantInactive: "variant is not active; select it before editing",
		MsgNestedArray:     "nested arrays are not supported",
		MsgArrayOfMaps:     "arrays of key/value maps are not supported",
		MsgEmptyTuple:      "tuple arrays without items are not supported",
		MsgMissingItems:    "array schema is missing 'items'",
		MsgUnresolvedRef:   "unresolved $ref '{ref}'",
		MsgExternalRef:     "external $ref '{ref}' is not supported",
		MsgCyclicRef:       "cyclic $ref '{ref}'",
		MsgRootNotObject:   "root schema must describe an object",
		MsgInvalidElement:  "'{value}' is not a valid {kind}",
		MsgRequiredField:   "this field is required",
	},
	"ja": {
		MsgExpectedInteger: "整数を入力してください",
		MsgExpectedNumber:  "数値を入力してください",
		MsgEmptyKey:        "キーが空です",
		MsgDuplicateKey:    "キー '{key}' が重複しています",
		MsgOneOfRequired:   "oneOf のバリアントを選択してください",
		MsgAnyOfRequired:   "anyOf のバリアントを少なくとも一つ有効にしてください",
		MsgVariantInactive: "バリアントが無効です。編集する前に選択してください",
		MsgNestedArray:     "入れ子の配列はサポートされていません",
		MsgArrayOfMaps:     "キー/値マップの配列はサポートされていません",
		MsgEmptyTuple:      "要素のないタプル配列はサポートされていません",
		MsgMissingItems:    "配列スキーマに 'items' がありません",
		MsgUnresolvedRef:   "$ref '{ref}' を解決できません",
		MsgExternalRef:     "外部 $ref '{ref}' はサポートされていません",
		MsgCyclicRef:       "$ref '{ref}' が循環しています",
		MsgRootNotObject:   "ルートスキーマはオブジェクトである必要があります",
		MsgInvalidElement:  "'{value}' は有効な {kind} ではありません",
		MsgRequiredField:   "必須項目です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		if msg, ok = dictionaries["en"][code]; !ok {
			return code
		}
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}
var currentLanguage = "en"

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	currentLanguage = lang
	currentTranslator = dictTranslator{lang: lang}
}

// Language reports the language last selected through SetLanguage.
func Language() string { return currentLanguage }

// Supported reports whether the built-in dictionary knows lang.
func Supported(lang string) bool {
	_, ok := dictionaries[lang]
	return ok
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
