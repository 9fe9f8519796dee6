package sdl

// CommentEvent is the shape of a pass-through comment for emit_comment: spec.md
// §6 "emit_comment(out, text, lineFlag, startFlag, middleFlag,
// endFlag)". The four flags mirror the original's comment-placement
// logic (opensdl_listing.c): a comment on the same source line as the
// previous member attaches to it (LineFlag); a comment that opens,
// continues, or closes a multi-line block sets Start/Middle/EndFlag
// respectively.
type CommentEvent struct {
	Text      string
	LineFlag  bool
	StartFlag bool
	MiddleFlag bool
	EndFlag   bool
}

// AttachComment returns text as a CommentEvent whose LineFlag is
// sameLine and whose StartFlag and EndFlag are both set (MiddleFlag is
// never set). Inside an aggregate it also appends the text as a
// separate COMMENT member (spec.md §3 MEMBER "{COMMENT}" variant),
// whatever the value of sameLine; a comment is never attached to the
// previous member. The event is not passed to any emitter's Comment
// method.
func (c *Context) AttachComment(text string, loc SourceLoc, sameLine bool) *CommentEvent {
	ev := &CommentEvent{Text: text, LineFlag: sameLine, StartFlag: true, EndFlag: true}
	agg := c.CurrentAggregate()
	if agg != nil {
		c.AggregateMember("", 0, MemberComment, loc, text, 0, false)
	}
	return ev
}
