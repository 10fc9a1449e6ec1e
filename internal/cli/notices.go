package cli

import (
	"github.com/pterm/pterm"

	"github.com/telaviv/ops-dashboard/internal/domain"
)

// flushNotices prints and drains the session's queued notices.
func (rt *runtime) flushNotices() {
	for _, n := range rt.notices.Drain(rt.session.Key()) {
		switch n.Level {
		case domain.NoticeSuccess:
			pterm.Success.Println(n.Message)
		case domain.NoticeWarning:
			pterm.Warning.Println(n.Message)
		case domain.NoticeError:
			pterm.Error.Println(n.Message)
		default:
			pterm.Info.Println(n.Message)
		}
	}
}
