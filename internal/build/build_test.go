package build

import (
	"testing"
	"time"
)

func TestNewBuild(t *testing.T) {
	b := newBuild("abc123", "2024-05-01T10:00:00Z", "v1.2.0", "https://github.com/ItsNotGoodName/x-tagbar")
	if b.CommitURL != "https://github.com/ItsNotGoodName/x-tagbar/tree/abc123" {
		t.Fatalf("unexpected commit url %q", b.CommitURL)
	}
	if !b.Date.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", b.Date)
	}
	if b.String() != "v1.2.0 (abc123)" {
		t.Fatalf("unexpected string %q", b.String())
	}

	dev := newBuild("", "", "dev", "")
	if dev.CommitURL != "#" || !dev.Date.IsZero() || dev.String() != "dev" {
		t.Fatalf("unexpected dev build %+v", dev)
	}
}
