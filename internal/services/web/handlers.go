package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/blurb/internal/msg"
	"github.com/louisbranch/blurb/internal/msg/msgconfig"
	"github.com/louisbranch/blurb/internal/platform/httpx"
	"github.com/louisbranch/blurb/internal/platform/requestmeta"
	"github.com/louisbranch/blurb/internal/services/web/i18n"
	"github.com/louisbranch/blurb/internal/services/web/templates"
	"golang.org/x/text/message"
)

type handler struct {
	appName   string
	policy    requestmeta.SchemePolicy
	msgConfig *msgconfig.Source
}

// localizer resolves the request locale, optionally persists a cookie,
// and returns a message printer with the resolved language tag string.
func localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, setCookie := i18n.ResolveTag(r)
	if setCookie {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag.String()
}

func (h *handler) store(r *http.Request, channel string) (*msg.Store, error) {
	reg, ok := msg.FromContext(r.Context())
	if !ok {
		return nil, errors.New("message registry missing from request")
	}
	return reg.Store(strings.TrimSpace(channel))
}

func (h *handler) handleHome(w http.ResponseWriter, r *http.Request) {
	printer, lang := localizer(w, r)
	query := r.URL.Query()

	store, err := h.store(r, query.Get("channel"))
	if err != nil {
		h.writeMsgError(w, printer, err)
		return
	}
	cfg := h.msgConfig.Current()
	view := strings.TrimSpace(query.Get("view"))
	if view == "" {
		view = cfg.DefaultView
	}
	rendered, err := store.Render(httpx.RequestContext(r), msg.Filter{}, msg.WithView(view))
	if err != nil {
		h.writeMsgError(w, printer, err)
		return
	}

	kinds := msg.Kinds()
	kindNames := make([]string, len(kinds))
	for i, k := range kinds {
		kindNames[i] = string(k)
	}
	page := templates.PageContext{AppName: h.appName, Lang: lang, Loc: printer}
	params := templates.HomeParams{
		Messages:       rendered,
		Roar:           view == msg.RoarView,
		Channels:       cfg.Names(),
		Kinds:          kindNames,
		CurrentChannel: store.Name(),
	}
	var buf bytes.Buffer
	if err := templates.HomePage(page, params).Render(httpx.RequestContext(r), &buf); err != nil {
		log.Printf("render home: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	_ = httpx.WriteHTML(w, http.StatusOK, buf.String())
}

func (h *handler) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	printer, _ := localizer(w, r)
	if !h.policy.SameOrigin(r) {
		http.Error(w, printer.Sprintf("error.cross_origin"), http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, printer.Sprintf("error.bad_request"), http.StatusBadRequest)
		return
	}

	kind, ok := msg.ParseKind(r.PostForm.Get("kind"))
	if !ok {
		http.Error(w, printer.Sprintf("error.bad_request"), http.StatusBadRequest)
		return
	}
	var opts []msg.SetOption
	if values := formValues(r.PostForm.Get("values")); len(values) > 0 {
		opts = append(opts, msg.Values(values...))
	}
	if data := strings.TrimSpace(r.PostForm.Get("data")); data != "" {
		if !json.Valid([]byte(data)) {
			http.Error(w, printer.Sprintf("error.bad_request"), http.StatusBadRequest)
			return
		}
		opts = append(opts, msg.Data(json.RawMessage(data)))
	}

	channel := r.PostForm.Get("channel")
	store, err := h.store(r, channel)
	if err != nil {
		h.writeMsgError(w, printer, err)
		return
	}
	if err := store.Set(kind, r.PostForm.Get("text"), opts...); err != nil {
		h.writeMsgError(w, printer, err)
		return
	}
	httpx.WriteRedirect(w, r, homeURL(store.Name()))
}

func (h *handler) handleDeleteMessages(w http.ResponseWriter, r *http.Request) {
	printer, _ := localizer(w, r)
	if !h.policy.SameOrigin(r) {
		http.Error(w, printer.Sprintf("error.cross_origin"), http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, printer.Sprintf("error.bad_request"), http.StatusBadRequest)
		return
	}
	filter, err := msg.ParseFilter(r.PostForm.Get("filter"))
	if err != nil {
		h.writeMsgError(w, printer, err)
		return
	}
	store, err := h.store(r, r.PostForm.Get("channel"))
	if err != nil {
		h.writeMsgError(w, printer, err)
		return
	}
	if err := store.Delete(filter); err != nil {
		h.writeMsgError(w, printer, err)
		return
	}
	httpx.WriteRedirect(w, r, homeURL(store.Name()))
}

type listResponse struct {
	Channel  string        `json:"channel"`
	Filter   string        `json:"filter,omitempty"`
	Messages []msg.Message `json:"messages"`
}

func (h *handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := msg.ParseFilter(query.Get("filter"))
	if err != nil {
		_ = httpx.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	store, err := h.store(r, query.Get("channel"))
	if err != nil {
		_ = httpx.WriteJSONError(w, msgErrorStatus(err), err.Error())
		return
	}
	messages, err := store.Get(filter, msg.Delete(query.Get("once") == "1" || query.Get("once") == "true"))
	if err != nil {
		log.Printf("list messages: %v", err)
		_ = httpx.WriteJSONError(w, http.StatusInternalServerError, "messages unavailable")
		return
	}
	if messages == nil {
		messages = []msg.Message{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, listResponse{
		Channel:  store.Name(),
		Filter:   filter.String(),
		Messages: messages,
	})
}

func (h *handler) writeMsgError(w http.ResponseWriter, printer *message.Printer, err error) {
	status := msgErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("messages: %v", err)
		http.Error(w, printer.Sprintf("error.unavailable"), status)
		return
	}
	http.Error(w, err.Error(), status)
}

func msgErrorStatus(err error) int {
	switch {
	case msg.IsArgument(err), msg.IsConfiguration(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// formValues splits a textarea into one interpolation value per non-blank
// line.
func formValues(raw string) []any {
	var values []any
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			values = append(values, line)
		}
	}
	return values
}

func homeURL(channel string) string {
	if channel == "" {
		return "/"
	}
	return "/?" + url.Values{"channel": {channel}}.Encode()
}
