package engine

import (
	"fmt"

	"github.com/genricoloni/tunecord/internal/domain"
)

const (
	appTitle     = "tunecord"
	noTrackLabel = "No active track"
)

// iconTier derives the shell icon from the connection state and the current track
func iconTier(state domain.ConnectionState, snap *domain.TrackSnapshot) domain.IconTier {
	switch {
	case state != domain.StateConnected:
		return domain.TierRed
	case snap == nil:
		return domain.TierGray
	case snap.IsPlaying:
		return domain.TierGreen
	default:
		return domain.TierYellow
	}
}

func musicText(snap *domain.TrackSnapshot) string {
	if snap == nil {
		return "no active track"
	}
	verb := "paused"
	if snap.IsPlaying {
		verb = "playing"
	}
	return fmt.Sprintf("%s: %s - %s", verb, snap.Artist, snap.Title)
}

func tooltip(discord, music string) string {
	return fmt.Sprintf("%s\nDiscord: %s\nMusic: %s", appTitle, discord, music)
}

// menuLine is the track entry of the shell menu
func menuLine(snap *domain.TrackSnapshot) string {
	if snap == nil {
		return noTrackLabel
	}
	mark := "⏸"
	if snap.IsPlaying {
		mark = "▶"
	}
	return fmt.Sprintf("%s %s - %s", mark, snap.Artist, snap.Title)
}
