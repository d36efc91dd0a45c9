package domain

import (
	"fmt"
	"time"
)

// for debug
func (r *Reply) String() string {
	return fmt.Sprintf("[id:%s, text:%s, created:%s, reported:%t]", r.Id, r.Text, r.CreatedOn.Format(time.StampMilli), r.Reported)
}

func (t *Thread) String() string {
	s := fmt.Sprintf("[id:%s, board:%s, text:%s, bumped:%s, reported:%t, replies:[", t.Id, t.Board, t.Text, t.BumpedOn.Format(time.StampMilli), t.Reported)
	for i := range t.Replies {
		if i > 0 {
			s += ", "
		}
		s += t.Replies[i].String()
	}
	return s + "]]"
}
