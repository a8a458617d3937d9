package xwm

import (
	"reflect"
	"testing"

	"github.com/ItsNotGoodName/x-tagbar/internal/bar"
	"github.com/ItsNotGoodName/x-tagbar/internal/tags"
	"github.com/ItsNotGoodName/x-tagbar/internal/widget"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xproto"
)

const (
	testDock   xproto.Window = 10
	testRoot   xproto.Window = 1
	testClient xproto.Window = 20
	testOther  xproto.Window = 30

	atomCurrentDesktop xproto.Atom = 100
	atomWmDesktop      xproto.Atom = 101
	atomUnrelated      xproto.Atom = 102
)

func TestTranslate(t *testing.T) {
	r := newReceiver(testDock, testRoot, "X11", atomCurrentDesktop, atomWmDesktop)
	r.subscribed[testClient] = true

	tests := []struct {
		name        string
		ev          xgb.Event
		wantMsgs    []bar.Msg
		wantRefresh bool
	}{
		{
			name:     "Configure",
			ev:       xproto.ConfigureNotifyEvent{Sequence: 7, Window: testDock, Width: 440, Height: 80},
			wantMsgs: []bar.Msg{bar.Configure{Serial: 7, Width: 440, Height: 80}},
		},
		{
			name: "ConfigureOtherWindow",
			ev:   xproto.ConfigureNotifyEvent{Window: testOther, Width: 440, Height: 80},
		},
		{
			name:     "Expose",
			ev:       xproto.ExposeEvent{Window: testDock},
			wantMsgs: []bar.Msg{bar.Expose{}},
		},
		{
			name: "ExposeMore",
			ev:   xproto.ExposeEvent{Window: testDock, Count: 2},
		},
		{
			name: "ButtonPress",
			ev:   xproto.ButtonPressEvent{Event: testDock, Detail: 1, Time: 5, EventX: 12, EventY: 34},
			wantMsgs: []bar.Msg{bar.Pointer{X: 12, Y: 34, Input: widget.Input{
				Kind: widget.InputPress, Button: 1, Time: 5,
			}}},
		},
		{
			name: "ButtonRelease",
			ev:   xproto.ButtonReleaseEvent{Event: testDock, Detail: 3, EventX: 1, EventY: 2},
			wantMsgs: []bar.Msg{bar.Pointer{X: 1, Y: 2, Input: widget.Input{
				Kind: widget.InputRelease, Button: 3,
			}}},
		},
		{
			name: "Enter",
			ev:   xproto.EnterNotifyEvent{Event: testDock, EventX: 4, EventY: 5},
			wantMsgs: []bar.Msg{bar.Pointer{X: 4, Y: 5, Input: widget.Input{
				Kind: widget.InputEnter,
			}}},
		},
		{
			name: "Leave",
			ev:   xproto.LeaveNotifyEvent{Event: testDock, EventX: -1, EventY: 5},
			wantMsgs: []bar.Msg{bar.Pointer{X: -1, Y: 5, Input: widget.Input{
				Kind: widget.InputLeave,
			}}},
		},
		{
			name:     "Destroy",
			ev:       xproto.DestroyNotifyEvent{Event: testDock, Window: testDock},
			wantMsgs: []bar.Msg{bar.Closed{}},
		},
		{
			name:     "Completion",
			ev:       shm.CompletionEvent{Drawable: xproto.Drawable(testDock), Offset: 640},
			wantMsgs: []bar.Msg{bar.BufferRelease{Offset: 640}},
		},
		{
			name: "CompletionOtherWindow",
			ev:   shm.CompletionEvent{Drawable: xproto.Drawable(testOther), Offset: 640},
		},
		{
			name:        "RootProperty",
			ev:          xproto.PropertyNotifyEvent{Window: testRoot, Atom: atomCurrentDesktop},
			wantRefresh: true,
		},
		{
			name: "RootUnrelatedProperty",
			ev:   xproto.PropertyNotifyEvent{Window: testRoot, Atom: atomUnrelated},
		},
		{
			name:        "ClientProperty",
			ev:          xproto.PropertyNotifyEvent{Window: testClient, Atom: atomWmDesktop},
			wantRefresh: true,
		},
		{
			name: "UnknownClientProperty",
			ev:   xproto.PropertyNotifyEvent{Window: testOther, Atom: atomWmDesktop},
		},
		{
			name: "Unhandled",
			ev:   xproto.KeyPressEvent{Event: testDock, Detail: 24},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, refresh := r.Translate(tt.ev)
			if !reflect.DeepEqual(msgs, tt.wantMsgs) {
				t.Fatalf("expected %#v, got %#v", tt.wantMsgs, msgs)
			}
			if refresh != tt.wantRefresh {
				t.Fatalf("expected refresh=%t, got %t", tt.wantRefresh, refresh)
			}
		})
	}
}

func TestStatusMsg(t *testing.T) {
	r := newReceiver(testDock, testRoot, "X11")

	msg := r.StatusMsg(Status{
		Focused: tags.Tag(1),
		Views:   []tags.Mask{tags.Tag(1), tags.All},
		Urgent:  tags.Tag(3),
	})

	if msg.Output != "X11" || msg.Focused == nil || *msg.Focused != tags.Tag(1) || msg.Urgent == nil || *msg.Urgent != tags.Tag(3) {
		t.Fatalf("unexpected update %+v", msg)
	}
	if want := []byte{2, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}; !reflect.DeepEqual(msg.Views, want) {
		t.Fatalf("expected views %v, got %v", want, msg.Views)
	}

	empty := r.StatusMsg(Status{})
	if empty.Views == nil || len(empty.Views) != 0 {
		t.Fatalf("expected an empty view list to clear views, got %#v", empty.Views)
	}
}
