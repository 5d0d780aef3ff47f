package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Templates holds the announcement and direct-message texts. Placeholders of
// the form {event}, {capacity}, {username}, {url}, and {mentions} are
// substituted at send time.
//
// Operators can override any text with a TOML file; unset keys keep their
// defaults.
type Templates struct {
	CapacityReached  string `toml:"capacity_reached"`
	CapacityOpened   string `toml:"capacity_opened"`
	DeadlineClosed   string `toml:"deadline_closed"`
	Remind1          string `toml:"remind1"`
	Remind2          string `toml:"remind2"`
	PaymentDM        string `toml:"payment_dm"`
	PaymentChaseDM   string `toml:"payment_chase_dm"`
	PaymentConfirmDM string `toml:"payment_confirm_dm"`
}

// DefaultTemplates returns the built-in message texts.
func DefaultTemplates() *Templates {
	return &Templates{
		CapacityReached: "🎉 **Heads up! {event} has reached its maximum capacity of {capacity} participants!** 🎉\n" +
			"If a spot opens up, we'll let you know!",
		CapacityOpened: "🔔 **Good news! A spot has opened up for {event}!** 🔔\n" +
			"There's still a chance to join!",
		DeadlineClosed: "{mentions}\n📢 **Recruitment for {event} has officially closed!** 📢",
		Remind1: "{mentions}\n🔔 **Friendly Reminder** 🔔\n" +
			"Just a quick heads-up about {event}.",
		Remind2: "{mentions}\n⏰ **Last Chance Reminder** ⏰\n" +
			"This is your final reminder for {event}.",
		PaymentDM: "Hello {username}!\n\n" +
			"Here is the payment page for the event \"{event}\":\n{url}\n\n" +
			"This payment link expires in 24 hours.",
		PaymentChaseDM: "Hello {username}!\n\n" +
			"We noticed you've RSVP'd for \"{event}\" but haven't received a payment link. Here it is:\n{url}\n\n" +
			"This payment link expires in 24 hours. If it expires, please RSVP again.",
		PaymentConfirmDM: "Your payment for {event} has been completed! Thank you for participating.",
	}
}

// LoadTemplates reads a TOML template file over the defaults. An empty path
// returns the defaults unchanged.
func LoadTemplates(path string) (*Templates, error) {
	t := DefaultTemplates()
	if path == "" {
		return t, nil
	}
	if _, err := toml.DecodeFile(path, t); err != nil {
		return nil, fmt.Errorf("load templates %s: %w", path, err)
	}
	return t, nil
}

// Render substitutes placeholder/value pairs into a template text. Pairs are
// given as placeholder name (without braces) followed by its value.
func Render(text string, pairs ...string) string {
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}

// ForThreshold returns the announcement text for a deadline threshold name
// ("deadline", "remind1", "remind2").
func (t *Templates) ForThreshold(name string) string {
	switch name {
	case "remind1":
		return t.Remind1
	case "remind2":
		return t.Remind2
	default:
		return t.DeadlineClosed
	}
}
