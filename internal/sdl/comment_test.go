package sdl

import "testing"

func TestAttachCommentOutsideAggregateIsStandalone(t *testing.T) {
	c := newTestContext()
	ev := c.AttachComment("a free comment", SourceLoc{Line: 1}, false)
	if ev.Text != "a free comment" || ev.LineFlag {
		t.Errorf("AttachComment = %+v, want Text set and LineFlag false", ev)
	}
}

func TestAttachCommentInsideAggregateAddsCommentMember(t *testing.T) {
	c := newTestContext()
	loc := SourceLoc{Line: 1}
	c.BeginAggregate("S", AggStruct, loc)
	c.AggregateMember("x", TyByte, MemberItem, loc, "", 0, false)
	c.AttachComment("trailing note", loc, true)
	agg := c.CurrentAggregate()
	if len(agg.Members) != 2 {
		t.Fatalf("got %d members, want 2 (scalar + comment)", len(agg.Members))
	}
	last := agg.Members[1]
	if last.Kind != MemberComment || last.CommentText != "trailing note" {
		t.Errorf("last member = %+v, want a COMMENT member with text %q", last, "trailing note")
	}
}
