package vocab

// Default returns a fresh copy of the built-in Spanish/LATAM vocabulary.
func Default() *Vocabulary {
	return &Vocabulary{
		Love: []string{"te amo", "te quiero", "te adoro"},
		Affection: []string{
			"beso", "besos", "cariño", "amor", "mi vida", "hermosa", "hermoso",
			"guapo", "guapa", "linda", "lindo", "mi cielo", "mi rey", "mi reina",
		},
		Nicknames: []string{
			"amor", "bebe", "bebé", "vida", "cielo", "gordi", "gordo", "gorda",
			"chanchi", "rey", "reina", "linda", "lindo",
		},
		Greetings:  []string{"buenos dias", "buen dia", "bd", "buenos días", "buen día"},
		Politeness: []string{"gracias", "por favor", "agradecido", "agradecida", "plis"},
		Apologies:  []string{"perdon", "perdón", "lo siento", "disculpa", "mala mia"},
		Pronouns:   []string{"yo", "mi", "me", "mío"},
		BadWords: []string{
			"mierda", "carajo", "puta", "puto", "verga", "pendejo", "estupido", "idiota",
			"imbecil", "cabron", "joder", "coño",
			// Chilean slang
			"wea", "weon", "wn", "ctm", "conchetumare", "culiao", "ql", "pico", "chucha", "aweonao",
		},
		KillerWords: []string{"ok", "k", "jaja", "haha", "lol", "👍", "bueno"},
		Uncertainty: []string{
			"no se", "no sé", "creo", "tal vez", "quizas", "quizás", "depende",
			"no estoy seguro", "no estoy segura", "nose",
		},
		StopWords: []string{
			"de", "la", "que", "el", "en", "y", "a", "los", "se", "del", "las", "un", "por",
			"con", "no", "una", "su", "para", "es", "al", "lo", "como", "mas", "pero", "sus",
			"le", "ya", "o", "fue", "este", "ha", "si", "porque", "esta", "son", "entre",
			"cuando", "muy", "sin", "sobre", "ser", "tiene", "tambien", "me", "hasta", "hay",
			"donde", "quien", "desde", "todo", "nos", "durante", "todos", "uno", "les", "ni",
			"contra", "otros", "ese", "eso", "ante", "ellos", "e", "esto", "mi", "antes",
			"algunos", "unos", "yo", "otro", "otras", "otra", "ella", "te", "ti", "tu",
			"pm", "am", "omitted", "audio", "image", "video", "sticker", "gif", "null", "undefined",
		},
		Positive: []string{
			"bien", "bueno", "genial", "excelente", "feliz", "contento", "gracias", "si", "ok",
			"jaja", "haha", "amor", "lindo", "perfecto", "increíble", "maravilloso",
		},
		Negative: []string{
			"mal", "malo", "triste", "no", "odio", "feo", "horrible", "terrible", "mierda",
			"puta", "estupido",
		},
		Negations: []string{"no", "nunca", "ni"},
		Laughs: map[string][]string{
			"jaja":  {"jaja", "jeje", "jiji"},
			"haha":  {"haha"},
			"lol":   {"lol"},
			"other": {"ksks", "asdj", "jsjs"},
		},
		Keysmash: "asdfjklñ",
		Markers: Markers{
			Image:   `(image|video|media) (omitted|omitido)|<media omitted>`,
			Gif:     `gif (omitted|omitido)`,
			Sticker: `sticker.*(omitted|omitido)`,
			Audio:   `(audio|ptt) (omitted|omitido)`,
			Deleted: `message.*deleted|mensaje.*eliminado`,
		},
		System: []string{
			// Deleted messages
			`eliminó este mensaje`,
			`deleted this message`,
			`apagou esta mensagem`,
			`message deleted`,
			`mensaje eliminado`,

			// Group metadata
			`cambió la descripción`,
			`changed the (group )?description`,
			`alterou a descrição`,
			`cambió el ícono`,
			`changed the (group )?icon`,
			`alterou o ícone`,
			`cambió el nombre`,
			`changed the subject`,
			`alterou o assunto`,

			// Membership
			`se unió usando el enlace`,
			`joined using this group'?s invite link`,
			`entrou usando o link`,
			`\badded\b`,
			`\bagregó\b`,
			`\badicionou\b`,
			`\bleft\b$`,
			`\bsalió\b$`,
			`\bsaiu\b$`,
			`\bremoved\b`,
			`\beliminó\b`,
			`\bremoveu\b`,

			// Encryption banners
			`cifrado de extremo a extremo`,
			`end-to-end encryption`,
			`criptografia de ponta a ponta`,
			`los mensajes y las llamadas`,
			`messages and calls are`,

			// Group creation
			`creó el grupo`,
			`created group`,
			`criou o grupo`,

			// Calls
			`\bllamada perdida\b`,
			`\bmissed (video )?call\b`,
			`\bchamada perdida\b`,
			`\bllamada de\b`,
			`\bcall from\b`,

			// Automated business messages
			`este mensaje fue enviado automáticamente`,
			`this message was sent automatically`,
			`esta mensagem foi enviada automaticamente`,
		},
	}
}
