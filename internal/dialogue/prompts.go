package dialogue

// Prompts is the fixed text spoken in one locale.
type Prompts struct {
	// Welcome opens a call and invites the first question.
	Welcome string
	// Intro is the short self-introduction played in the language menu.
	Intro string
	// MenuHint tells the caller which key selects this locale.
	MenuHint string
	// Silence is spoken before hanging up when the caller says nothing.
	Silence string
}

const (
	// ErrorMessage is spoken when a turn could not be handled at all.
	ErrorMessage = "मैं समझ नहीं पाई। फिर से बताओ।"
	// FallbackReply stands in for a reply the generator could not produce.
	FallbackReply = "मैं समझ नहीं पाई। फिर से बताओ क्या पूछना है?"
	// SentenceTerminator splits replies into spoken segments.
	SentenceTerminator = "।"
)

var prompts = map[Locale]Prompts{
	Hindi: {
		Welcome:  "नमस्ते, मैं दीक्षा हूं, आपकी कृषि सहायक। मैं आपकी कैसे मदद कर सकती हूं?",
		Intro:    "नमस्ते, मैं दीक्षा हूं, आपकी कृषि सहायक।",
		MenuHint: "हिंदी के लिए 1 दबाएं।",
		Silence:  "आप काफी देर से चुप हैं। मैं कॉल काट रही हूं। जरूरत हो तो फिर से कॉल करना।",
	},
	Marathi: {
		Welcome:  "नमस्कार, मी दीक्षा आहे, तुमची कृषी सहाय्यक. मी तुमची कशी मदत करू शकते?",
		Intro:    "नमस्कार, मी दीक्षा आहे, तुमची कृषी सहाय्यक.",
		MenuHint: "मराठीसाठी 2 दाबा.",
		Silence:  "तुम्ही बराच वेळ शांत आहात. मी कॉल बंद करत आहे. गरज असल्यास पुन्हा कॉल करा.",
	},
	English: {
		Welcome:  "Hello, I am Diksha, your agriculture assistant. How may I help you today?",
		Intro:    "Hello, I am Diksha, your agriculture assistant.",
		MenuHint: "For English, press 3.",
		Silence:  "You have been quiet for a while. I am ending the call now. Please call again if you need help.",
	},
}

// PromptsFor returns the prompts of locale, or Hindi's for an unknown locale.
func PromptsFor(locale Locale) Prompts {
	if p, ok := prompts[locale]; ok {
		return p
	}
	return prompts[Hindi]
}
