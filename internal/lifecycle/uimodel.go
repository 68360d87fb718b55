package lifecycle

import "github.com/vidalink/telemed/pkg/types"

// BuildUiModel runs the full derivation pipeline for one request as seen
// by one role: normalize, resolve the phase, then attach badge, timeline
// and actions. The result is a pure function of (role, request snapshot);
// calling it twice on the same input yields an identical model.
func BuildUiModel(role types.Role, req *types.Request) types.RequestUiModel {
	cfg := ResolveRequest(role, req)

	kind := types.KindPrescription
	if req != nil {
		kind = req.RequestType
	}

	return types.RequestUiModel{
		Phase:    cfg.Phase,
		Title:    cfg.Title,
		Subtitle: cfg.Subtitle,
		Badge: types.UiBadge{
			Label:    BadgeLabel(cfg.Phase),
			ColorKey: ColorForPhase(cfg.Phase),
		},
		TimelineSteps:  BuildTimeline(role, kind, cfg.Phase),
		Actions:        cfg.Actions,
		CountersBucket: cfg.Bucket,
		DisabledReason: cfg.DisabledReason,
	}
}
