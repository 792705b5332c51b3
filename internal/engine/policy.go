package engine

import (
	"time"

	"github.com/genricoloni/tunecord/internal/domain"
)

const (
	// maxFieldRunes is Discord's limit for activity strings
	maxFieldRunes = 128
	// keepaliveSeconds refreshes the elapsed-time bar on the wall clock
	keepaliveSeconds = 15
	// maxButtons is Discord's limit for activity buttons
	maxButtons = 2

	defaultLargeText = "Yandex Music"
)

// shouldPush decides whether a snapshot warrants a presence update.
// Position is not part of the key, so seeking alone never triggers a push.
func shouldPush(last *domain.UpdateKey, snap domain.TrackSnapshot, showTimestamp bool, now time.Time) bool {
	if last == nil || *last != snap.Key() {
		return true
	}
	return showTimestamp && snap.IsPlaying && now.Unix()%keepaliveSeconds == 0
}

// buildActivity composes the presence payload for a snapshot
func buildActivity(snap domain.TrackSnapshot, cover string, settings domain.Settings, now time.Time) domain.Activity {
	a := domain.Activity{
		Details:    truncate(snap.Title, maxFieldRunes),
		State:      truncate(snap.Artist, maxFieldRunes),
		LargeImage: cover,
		LargeText:  truncate(snap.Album, maxFieldRunes),
		SmallImage: "pause",
		SmallText:  "Paused",
	}
	if a.LargeImage == "" {
		a.LargeImage = settings.FallbackImage
	}
	if a.LargeText == "" {
		a.LargeText = defaultLargeText
	}
	if snap.IsPlaying {
		a.SmallImage = "play"
		a.SmallText = "Playing"
	}

	if settings.ShowTimestamp && snap.IsPlaying && snap.Duration > 0 {
		// Second precision, like the player reports it
		start := now.Truncate(time.Second).Add(-time.Duration(snap.Position) * time.Second)
		end := start.Add(time.Duration(snap.Duration) * time.Second)
		a.Start = &start
		a.End = &end
	}

	for _, b := range settings.Buttons {
		if len(a.Buttons) == maxButtons {
			break
		}
		if b.Label == "" || b.URL == "" {
			continue
		}
		a.Buttons = append(a.Buttons, b)
	}
	return a
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
