package notifier

import (
	"errors"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/julianstephens/breakreel/internal/constants"
	"github.com/julianstephens/breakreel/internal/logger"
)

var (
	notifyFunc = func(title, message string) error {
		return beeep.Notify(title, message, "")
	}
	beepFunc = func() error {
		return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}
)

// Notifier shows desktop notifications for session events.
type Notifier struct {
	enabled bool
}

func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Notify shows text as a desktop notification, falling back to a beep when
// no notification daemon is reachable.
func (n *Notifier) Notify(text string) error {
	if n == nil || !n.enabled {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("notification text is empty")
	}

	err := notifyFunc(constants.NotificationTitle, text)
	if err == nil {
		return nil
	}
	logger.Debug("Desktop notification failed, beeping instead", "error", err)
	if beepErr := beepFunc(); beepErr != nil {
		return errors.Join(err, beepErr)
	}
	return nil
}
