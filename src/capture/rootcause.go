package capture

import "crashreporter/src/model"

// selectRootCause picks the frame most likely responsible for the failure:
// the first user-code frame with a resolved file, in the runtime's native
// order (raise site first). When no frame qualifies it falls back to the
// first frame, and to nil for an empty walk. The result points into the
// given slice, never at a copy.
func selectRootCause(frames []model.StackFrameDetail) *model.StackFrameDetail {
	if len(frames) == 0 {
		return nil
	}
	for i := range frames {
		if frames[i].IsUserCode && frames[i].FileName != "" {
			return &frames[i]
		}
	}
	return &frames[0]
}
