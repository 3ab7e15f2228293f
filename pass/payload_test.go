package pass

import (
	"errors"
	"testing"
)

func TestDecodeCompactForms(t *testing.T) {
	cases := []struct {
		raw  string
		want Payload
	}{
		{"ANNA:abc-123:deadbeef", Payload{KindAnnadanam, "abc-123", "deadbeef"}},
		{"POOJA:p-9:cafef00d", Payload{KindPooja, "p-9", "cafef00d"}},
		{"anna:tokenonly", Payload{KindAnnadanam, "", "tokenonly"}},
		{"POOJA:tokenonly", Payload{KindPooja, "", "tokenonly"}},
	}
	for _, tc := range cases {
		got, err := Decode(tc.raw)
		if err != nil {
			t.Fatalf("Decode(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Errorf("Decode(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestDecodeURLForms(t *testing.T) {
	got, err := Decode("https://seva.example.org/anna?b=bk-1&t=tok123")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindAnnadanam || got.ID != "bk-1" || got.Token != "tok123" {
		t.Fatalf("got %+v", got)
	}

	got, err = Decode("https://seva.example.org/pooja/pass?id=pb-7&token=tok456")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindPooja || got.ID != "pb-7" || got.Token != "tok456" {
		t.Fatalf("got %+v", got)
	}

	if _, err := Decode("https://seva.example.org/anna?b=bk-1"); !errors.Is(err, ErrUnrecognized) {
		t.Fatal("url without token must not decode")
	}
}

func TestDecodeJSONForms(t *testing.T) {
	got, err := Decode(`{"t":"anna","id":"bk-2","token":"tok789"}`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindAnnadanam || got.ID != "bk-2" || got.Token != "tok789" {
		t.Fatalf("got %+v", got)
	}

	got, err = Decode(`{"type":"pooja","id":"pb-3","token":"tokabc"}`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindPooja {
		t.Fatalf("got %+v", got)
	}

	if _, err := Decode(`{"t":"anna","id":"x"}`); !errors.Is(err, ErrUnrecognized) {
		t.Fatal("json without token must not decode")
	}
	if _, err := Decode(`{"t":"mystery","token":"x"}`); !errors.Is(err, ErrUnrecognized) {
		t.Fatal("unknown type must not decode")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "   ", "hello world", "ANNA:", "POOJA:id:"} {
		if _, err := Decode(raw); !errors.Is(err, ErrUnrecognized) {
			t.Errorf("Decode(%q) err = %v, want ErrUnrecognized", raw, err)
		}
	}
}

func TestEncodersRoundTrip(t *testing.T) {
	u := AnnadanamURL("https://seva.example.org/", "bk-1", "tok123")
	got, err := Decode(u)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindAnnadanam || got.ID != "bk-1" || got.Token != "tok123" {
		t.Fatalf("annadanam round trip got %+v", got)
	}

	p := PoojaPayload("pb-7", "tok456")
	got, err = Decode(p)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != KindPooja || got.ID != "pb-7" || got.Token != "tok456" {
		t.Fatalf("pooja round trip got %+v", got)
	}
}
