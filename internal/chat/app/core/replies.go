package core

// Reply texts returned to the user.
const (
	ReplyGreeting = "Olá! 👋 Como posso te ajudar hoje?"
	ReplyThanks   = "De nada! 😊 Se precisar de algo, é só chamar."
	ReplyFallback = "Desculpe, não entendi sua mensagem. Você pode tentar reformular ou digitar 'cardápio' para ver o que temos disponível."

	ReplyItemsAdded   = "✅ Adicionei ao seu pedido: %s. Deseja pedir mais alguma coisa?"
	ReplyNoItemsFound = "Não consegui identificar os itens do seu pedido. Por favor, diga exatamente o que deseja pedir, por exemplo: 'quero um sanduíche natural e um suco'."
	ReplyAddFailed    = "❌ Ocorreu um erro ao processar seu pedido. Tente novamente."

	ReplyOpenStatus = "📝 Seu pedido em andamento: %s. Deseja adicionar algo mais ou finalizar?"
	ReplyNoOrder    = "Você ainda não iniciou um pedido."

	ReplyFinalized        = "✅ Pedido finalizado com os itens: %s. Total: %s. Em breve entraremos em contato para confirmar."
	ReplyNothingToFinish  = "Você ainda não iniciou um pedido ou não há itens para finalizar."
	ReplyFinalizeFailed   = "❌ Ocorreu um erro ao finalizar seu pedido. Tente novamente."
	ReplyCancelled        = "🗑️ Seu pedido foi cancelado. Se quiser, é só começar um novo."
	ReplyNothingToCancel  = "Não há nenhum pedido em aberto para cancelar."
	ReplyCancelFailed     = "❌ Ocorreu um erro ao cancelar seu pedido. Tente novamente."
	ReplyRetry            = "❌ Ocorreu um erro ao processar sua mensagem. Tente novamente."
	ReplyEmptyMenu        = "Atualmente o cardápio está vazio. 😢"
	ReplyMenuHeader       = "🍽️ Aqui está o nosso cardápio:"
	ReplyNoHistory        = "Você ainda não fez nenhum pedido."
	ReplyHistoryHeader    = "Seu histórico de pedidos:"
	UnknownItemLabel      = "item desconhecido"
	UnknownStatusLabel    = "desconhecido"
	CurrencySymbol        = "R$"
)
