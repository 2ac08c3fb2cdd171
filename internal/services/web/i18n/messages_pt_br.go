package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.BrazilianPortuguese

	message.SetString(lang, "title.home", "%s | Mensagens")
	message.SetString(lang, "home.heading", "Mensagens")
	message.SetString(lang, "home.empty", "Nenhuma mensagem pendente.")
	message.SetString(lang, "home.channel", "Canal")
	message.SetString(lang, "home.kind", "Tipo")
	message.SetString(lang, "home.text", "Texto")
	message.SetString(lang, "home.values", "Valores (um por linha)")
	message.SetString(lang, "home.data", "Dados (JSON)")
	message.SetString(lang, "home.submit", "Adicionar mensagem")
	message.SetString(lang, "home.filter", "Filtro")
	message.SetString(lang, "home.delete", "Apagar mensagens")
	message.SetString(lang, "home.language", "Idioma")

	message.SetString(lang, "error.bad_request", "Não foi possível ler o formulário.")
	message.SetString(lang, "error.cross_origin", "Envios de outra origem não são permitidos.")
	message.SetString(lang, "error.unavailable", "As mensagens estão indisponíveis no momento.")
}
