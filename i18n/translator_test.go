package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T(MsgExpectedInteger, nil); msg != "expected integer" {
		t.Fatalf("expected english message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T(MsgExpectedInteger, nil); msg == "expected integer" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
	if Language() != "ja" {
		t.Fatalf("language not recorded: %q", Language())
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_Placeholders(t *testing.T) {
	if msg := T(MsgDuplicateKey, map[string]string{"key": "alpha"}); msg != "duplicate key 'alpha'" {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes should echo, got %q", msg)
	}
}

func TestSetLanguage_UnknownFallsBack(t *testing.T) {
	SetLanguage("xx")
	defer SetLanguage("en")
	if Language() != "en" || Supported("xx") {
		t.Fatalf("unknown language should fall back to en")
	}
}
