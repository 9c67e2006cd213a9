package intent

// Reference phrases per intent, already folded (lower case, no accents).
// Bare negatives ("nao", "no") and a bare "so" are kept out of the finalize set on purpose:
// they read as answers to a question far more often than as "close my order".
var (
	historyPatterns = []string{
		"meus pedidos", "historico", "historico de pedidos", "meu historico",
		"meus pedidos anteriores", "pedidos anteriores", "o que eu ja pedi", "ultimos pedidos",
		"ver meus pedidos", "lista de pedidos", "my orders", "order history",
	}

	cancelPatterns = []string{
		"cancelar", "cancela", "cancelar pedido", "cancelar o pedido", "desistir",
		"desistir do pedido", "esquece", "cancel", "cancel order",
	}

	statusPatterns = []string{
		"qual meu pedido", "meu pedido", "o que eu pedi", "ver meu pedido", "itens do pedido",
		"meu carrinho", "pedido atual", "what is in my order",
	}

	finalizePatterns = []string{
		"so isso", "mais nada", "encerrar", "finalizar", "finalizar pedido", "finalizar meu pedido",
		"fechar pedido", "fechar meu pedido", "fechar", "concluido",
		"pedido concluido", "concluir", "terminar", "pode fechar", "esta bom", "ja esta bom",
		"finalizar agora", "pronto", "acabou", "done", "that's all", "close order",
	}

	orderPatterns = []string{
		"quero pedir", "fazer um pedido", "quero", "gostaria de", "me ve", "vou querer", "pedir",
		"adicionar ao pedido", "me traga", "i want", "i'd like",
	}

	greetingPatterns = []string{
		"oi", "ola", "bom dia", "boa tarde", "boa noite", "e ai", "tudo bem", "oi tudo bem",
		"como vai", "saudacoes", "eae", "hello", "hi",
	}

	thanksPatterns = []string{
		"obrigado", "obrigada", "valeu", "agradecido", "muito obrigado", "grato", "agradeco",
		"thanks", "thank you",
	}

	menuPatterns = []string{
		"cardapio", "menu", "catalogo", "lista de pratos", "o que tem", "o que voces tem",
		"o que esta disponivel", "o que posso pedir", "quero comer", "almoco", "jantar",
		"refeicao", "lanche", "comida", "pratos", "opcoes", "qual o cardapio", "ver o menu",
		"cardapio do dia", "mostrar cardapio",
	}
)
