package granule_sync

// State is a phase of a sync run.
type State int

const (
	StateResolvingWatermark State = iota
	StateQuerying
	StateSelecting
	StateDownloading
	StateFinalizing
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateResolvingWatermark:
		return "resolving_watermark"
	case StateQuerying:
		return "querying"
	case StateSelecting:
		return "selecting"
	case StateDownloading:
		return "downloading"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
