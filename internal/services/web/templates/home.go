// Package templates holds the templ components of the web service.
package templates

// PageContext carries per-request presentation state.
type PageContext struct {
	AppName string
	Lang    string
	Loc     Localizer
}

// HomeParams describes the home page.
type HomeParams struct {
	// Messages is markup already rendered by a msg view.
	Messages       string
	// Roar adds the toast script for messages rendered by the roar view.
	Roar           bool
	Channels       []string
	Kinds          []string
	CurrentChannel string
}

// roarScript shows each entry of the msg-roar JSON block as a dismissable
// toast.
const roarScript = `<script>
(function () {
  var source = document.getElementById("msg-roar");
  if (!source) { return; }
  JSON.parse(source.textContent).forEach(function (m) {
    var toast = document.createElement("div");
    toast.className = "roar msg-" + m.kind;
    var title = document.createElement("strong");
    title.textContent = m.label;
    toast.appendChild(title);
    toast.appendChild(document.createTextNode(" " + m.text));
    toast.onclick = function () { toast.remove(); };
    document.body.appendChild(toast);
  });
})();
</script>`
