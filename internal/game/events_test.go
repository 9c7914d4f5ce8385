package game

import (
	"encoding/json"
	"testing"

	"github.com/playmatatu/tablescore/internal/billiards"
)

func TestEventSurvivesTheWire(t *testing.T) {
	tbl, rec := headToHead(t, false)
	tbl.RegisterBall(2)
	tbl.ResolveEightBallEarly()
	sent := rec.last()

	payload, err := json.Marshal(sent)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := decodeEvent(string(payload))
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}

	if got.Type != EventTableUpdate || got.TableID != tbl.ID || got.Action != "eight_ball_early" {
		t.Errorf("envelope = %+v", got)
	}
	snap := got.Snapshot
	if snap == nil {
		t.Fatal("snapshot lost in transit")
	}
	if snap.Disqualification != billiards.EarlyBlackBall {
		t.Errorf("disqualification = %s", snap.Disqualification)
	}
	if snap.Winner == nil || *snap.Winner != billiards.SideImpar {
		t.Errorf("winner = %v", snap.Winner)
	}
	if got := snap.Sides[billiards.SidePar].Sunk; len(got) != 1 || got[0] != 2 {
		t.Errorf("PAR sunk = %v", got)
	}
	if snap.Status != StatusResolved || snap.Version != sent.Snapshot.Version {
		t.Errorf("status = %s version = %d", snap.Status, snap.Version)
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := decodeEvent(`{"snapshot":{"disqualification":"forfeit"}}`); err == nil {
		t.Error("unknown disqualification should fail to decode")
	}
	if _, err := decodeEvent("not json"); err == nil {
		t.Error("garbage should fail to decode")
	}
}
