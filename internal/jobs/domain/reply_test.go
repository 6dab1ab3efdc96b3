package domain

import "testing"

func TestParseReply(t *testing.T) {
	cases := []struct {
		message  string
		explicit string
		wantID   string
		wantKind ReplyKind
	}{
		{message: "YES J123", wantID: "J123", wantKind: ReplyExplicitJob},
		{message: "  yes   J123  ", wantID: "J123", wantKind: ReplyExplicitJob},
		{message: "Yes J123 please", wantID: "J123", wantKind: ReplyExplicitJob},
		{message: "yes", wantKind: ReplyBareAffirmative},
		{message: " Yeah ", wantKind: ReplyBareAffirmative},
		{message: "yep", wantKind: ReplyBareAffirmative},
		{message: "Y", wantKind: ReplyBareAffirmative},
		{message: "yea", wantKind: ReplyBareAffirmative},
		{message: "maybe", wantKind: ReplyUnrecognized},
		{message: "yes!", wantKind: ReplyUnrecognized},
		{message: "sure J123", wantKind: ReplyUnrecognized},
		{message: "", wantKind: ReplyUnrecognized},
		{message: "maybe", explicit: " J9 ", wantID: "J9", wantKind: ReplyExplicitJob},
		{message: "YES J123", explicit: "J9", wantID: "J9", wantKind: ReplyExplicitJob},
		{message: "yes", explicit: "   ", wantKind: ReplyBareAffirmative},
	}

	for _, tc := range cases {
		id, kind := ParseReply(tc.message, tc.explicit)
		if id != tc.wantID || kind != tc.wantKind {
			t.Fatalf("ParseReply(%q, %q) = (%q, %v); want (%q, %v)", tc.message, tc.explicit, id, kind, tc.wantID, tc.wantKind)
		}
	}
}
