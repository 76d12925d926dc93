package auth

import (
	"testing"
	"time"
)

func TestIssueParse(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "cafeteria", TTL: time.Hour}
	tok, err := j.Issue("sid-1", "uid-1")
	if err != nil {
		t.Fatal(err)
	}
	c, err := j.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.SID != "sid-1" || c.UID != "uid-1" || c.Subject != "uid-1" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParseRejects(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "cafeteria", TTL: time.Hour}
	other := &JWTer{Secret: []byte("other"), Issuer: "cafeteria", TTL: time.Hour}
	wrongIss := &JWTer{Secret: []byte("s3cret"), Issuer: "elsewhere", TTL: time.Hour}
	expired := &JWTer{Secret: []byte("s3cret"), Issuer: "cafeteria", TTL: -time.Hour}

	mk := func(jj *JWTer, sid string) string {
		tok, err := jj.Issue(sid, "uid")
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}
	cases := map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": mk(other, "sid"),
		"wrong issuer": mk(wrongIss, "sid"),
		"expired":      mk(expired, "sid"),
		"empty sid":    mk(j, ""),
	}
	for name, tok := range cases {
		if _, err := j.Parse(tok); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}
