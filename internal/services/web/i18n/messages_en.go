package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.AmericanEnglish

	message.SetString(lang, "title.home", "%s | Flash messages")
	message.SetString(lang, "home.heading", "Flash messages")
	message.SetString(lang, "home.empty", "No messages waiting.")
	message.SetString(lang, "home.channel", "Channel")
	message.SetString(lang, "home.kind", "Kind")
	message.SetString(lang, "home.text", "Text")
	message.SetString(lang, "home.values", "Values (one per line)")
	message.SetString(lang, "home.data", "Data (JSON)")
	message.SetString(lang, "home.submit", "Add message")
	message.SetString(lang, "home.filter", "Filter")
	message.SetString(lang, "home.delete", "Delete messages")
	message.SetString(lang, "home.language", "Language")

	message.SetString(lang, "error.bad_request", "The form could not be read.")
	message.SetString(lang, "error.cross_origin", "Cross-origin form posts are not allowed.")
	message.SetString(lang, "error.unavailable", "Messages are unavailable right now.")
}
