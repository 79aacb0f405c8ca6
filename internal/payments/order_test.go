package payments

import "testing"

func TestNormalizeOrderCodeNumeric(t *testing.T) {
	one, two, three, nine := int64(1), int64(2), int64(3), int64(9)
	cases := []struct {
		code *int64
		want OrderClass
	}{
		{&one, OrderFirst},
		{&two, OrderIntermediate},
		{&three, OrderFinal},
		{&nine, OrderUnknown},
	}
	for _, c := range cases {
		if got := NormalizeOrderCode(c.code, ""); got != c.want {
			t.Fatalf("code %d: got %q, want %q", *c.code, got, c.want)
		}
	}
}

func TestNormalizeOrderCodeText(t *testing.T) {
	cases := []struct {
		text string
		want OrderClass
	}{
		{"First payment", OrderFirst},
		{"1st instalment", OrderFirst},
		{"Intermediate", OrderIntermediate},
		{"2nd instalment", OrderIntermediate},
		{"middle payment", OrderIntermediate},
		{"Final", OrderFinal},
		{"last payment", OrderFinal},
		{"  FINAL PAYMENT  ", OrderFinal},
		{"something else", OrderUnknown},
		{"", OrderUnknown},
	}
	for _, c := range cases {
		if got := NormalizeOrderCode(nil, c.text); got != c.want {
			t.Fatalf("%q: got %q, want %q", c.text, got, c.want)
		}
	}
}

func TestNormalizeOrderCodeNumericWinsOverText(t *testing.T) {
	three := int64(3)
	if got := NormalizeOrderCode(&three, "first payment"); got != OrderFinal {
		t.Fatalf("got %q", got)
	}
	// An unmapped code falls through to the text.
	nine := int64(9)
	if got := NormalizeOrderCode(&nine, "first payment"); got != OrderFirst {
		t.Fatalf("fallthrough: got %q", got)
	}
}
