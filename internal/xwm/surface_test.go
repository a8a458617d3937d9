package xwm

import (
	"image"
	"reflect"
	"testing"
)

func TestClipDamage(t *testing.T) {
	damage := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(90, 30, 120, 60),
		image.Rect(200, 200, 210, 210),
		{},
	}

	got := clipDamage(damage, 100, 40)
	want := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(90, 30, 100, 40),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := clipDamage(nil, 100, 40); len(got) != 0 {
		t.Fatalf("expected no rects, got %v", got)
	}
}
