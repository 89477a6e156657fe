package notifier

import "github.com/amishk599/talentlens/internal/model"

var _ model.Notifier = NopNotifier{}

// NopNotifier discards results. Used when notification.type is "none".
type NopNotifier struct{}

func (NopNotifier) Notify([]model.AnalysisResult) error { return nil }
