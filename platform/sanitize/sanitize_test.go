package sanitize

import "testing"

func TestTextStripsTagsAndCollapsesBlanks(t *testing.T) {
	got := Text("  <b>Dog</b>   friendly\n<script>alert(1)</script>gate  code &lt;i&gt;4412&lt;/i&gt; ")
	want := "Dog friendly\nalert(1)gate code 4412"
	if got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
}
