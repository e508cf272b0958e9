package tui

import (
	"io"
	"reflect"
	"testing"
)

func TestLoop_PassesInputEventsToHandler(t *testing.T) {
	var handlerGotEvents []event

	lp := newLoop()
	lp.HandleCb(func(e event) {
		handlerGotEvents = append(handlerGotEvents, e)
		if e == "^D" {
			lp.Return(nil)
		}
	})

	inputPassedEvents := []event{"foo", "bar", "lorem", "ipsum", "^D"}
	supplyInputs(lp, inputPassedEvents...)

	_ = lp.Run()
	if !reflect.DeepEqual(handlerGotEvents, inputPassedEvents) {
		t.Errorf("Handler got events %v, expect same as events passed to input (%v)",
			handlerGotEvents, inputPassedEvents)
	}
}

func TestLoop_RunReturnsAfterReturnCalled(t *testing.T) {
	lp := newLoop()
	lp.HandleCb(func(event) { lp.Return(io.EOF) })
	supplyInputs(lp, "x")
	if err := lp.Run(); err != io.EOF {
		t.Errorf("Run -> %v, want %v", err, io.EOF)
	}
}

func TestLoop_CallsDrawWhenRedrawRequestedBeforeRun(t *testing.T) {
	testLoopCallsDrawWhenRedrawRequestedBeforeRun(t, true, fullRedraw)
	testLoopCallsDrawWhenRedrawRequestedBeforeRun(t, false, 0)
}

func testLoopCallsDrawWhenRedrawRequestedBeforeRun(t *testing.T, full bool, wantRedrawFlag redrawFlag) {
	t.Helper()

	var gotRedrawFlag redrawFlag
	drawSeq := 0
	doneCh := make(chan struct{})
	drawer := func(full redrawFlag) {
		if drawSeq == 0 {
			gotRedrawFlag = full
			close(doneCh)
		}
		drawSeq++
	}

	lp := newLoop()
	lp.HandleCb(quitOn(lp, "^D", nil))
	go func() {
		<-doneCh
		lp.Input("^D")
	}()
	lp.RedrawCb(drawer)
	lp.Redraw(full)
	_ = lp.Run()
	if gotRedrawFlag != wantRedrawFlag {
		t.Errorf("Drawer got flag %v, want %v", gotRedrawFlag, wantRedrawFlag)
	}
}

func TestLoop_CallsDrawWhenRedrawRequestedAfterFirstDraw(t *testing.T) {
	testLoopCallsDrawWhenRedrawRequestedAfterFirstDraw(t, true, fullRedraw)
	testLoopCallsDrawWhenRedrawRequestedAfterFirstDraw(t, false, 0)
}

func testLoopCallsDrawWhenRedrawRequestedAfterFirstDraw(t *testing.T, full bool, wantRedrawFlag redrawFlag) {
	t.Helper()

	var gotRedrawFlag redrawFlag
	drawSeq := 0
	firstDrawCalledCh := make(chan struct{})
	doneCh := make(chan struct{})
	drawer := func(flag redrawFlag) {
		if drawSeq == 0 {
			close(firstDrawCalledCh)
		} else if drawSeq == 1 {
			gotRedrawFlag = flag
			close(doneCh)
		}
		drawSeq++
	}

	lp := newLoop()
	lp.HandleCb(quitOn(lp, "^D", nil))
	go func() {
		<-doneCh
		lp.Input("^D")
	}()
	lp.RedrawCb(drawer)
	go func() {
		<-firstDrawCalledCh
		lp.Redraw(full)
	}()
	_ = lp.Run()
	if gotRedrawFlag != wantRedrawFlag {
		t.Errorf("Drawer got flag %v, want %v", gotRedrawFlag, wantRedrawFlag)
	}
}

// Helpers.

func supplyInputs(lp *loop, events ...event) {
	for _, event := range events {
		lp.Input(event)
	}
}

// Returns a handleCb that quits on a trigger event.
func quitOn(lp *loop, retTrigger event, err error) handleCb {
	return func(e event) {
		if e == retTrigger {
			lp.Return(err)
		}
	}
}

func TestLoop_FinalRedrawSeesFinalState(t *testing.T) {
	buffer := ""
	var finalBuffer string
	drawer := func(flag redrawFlag) {
		if flag&finalRedraw != 0 {
			finalBuffer = buffer
		}
	}

	lp := newLoop()
	lp.HandleCb(func(e event) {
		if e == '\n' {
			lp.Return(nil)
			return
		}
		buffer += string(e.(rune))
	})
	go func() {
		for _, event := range "echo\n" {
			lp.Input(event)
		}
	}()
	lp.RedrawCb(drawer)
	if err := lp.Run(); err != nil {
		t.Errorf("Run -> %v, want nil", err)
	}
	if finalBuffer != "echo" {
		t.Errorf("got final buffer %q, want %q", finalBuffer, "echo")
	}
}
