package hasher

import "testing"

func TestHash_KnownVector(t *testing.T) {
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Hash("hello"); got != want {
		t.Fatalf("unexpected hash: got %s want %s", got, want)
	}
	if SumBytes([]byte("hello")) != want {
		t.Fatalf("SumBytes must agree with Hash")
	}
}

func TestETag(t *testing.T) {
	tag := ETag([]byte("<html></html>"))
	if len(tag) != 34 || tag[0] != '"' || tag[33] != '"' {
		t.Fatalf("unexpected entity tag %s", tag)
	}
	if tag == ETag([]byte("<html> </html>")) {
		t.Fatalf("different content must not share a tag")
	}
}

func BenchmarkETag(b *testing.B) {
	page := make([]byte, 16<<10)

	for b.Loop() {
		_ = ETag(page)
	}
}
