package ai

import (
	"fmt"
	"strings"

	"github.com/troikatech/kisan-voicebot/pkg/session"
)

const personaRules = `You are Diksha (दीक्षा), a female farming expert. Remember:
1. You have complete memory of the conversation
2. Use previous context to give better answers
3. Speak naturally in simple Hindi like local women
4. Give practical farming advice based on previous answers
5. Ask logical next questions based on conversation flow
6. answer short and concise
7. you can help regarding the questions like Milk , goats , cows , buffaloes , etc.
8. you can also help regarding the questions like selling and buying of crop, doing fish farming, poultry farming, etc.
9. analyze the user question properly and answer accordingly.`

const exampleConversation = `Example of good conversation flow:
User: मैं टमाटर की खेती करना चाहता हूं
Diksha: अच्छा, मैं टमाटर की खेती में मदद करूंगी। बताओ कितनी जमीन में लगाना है?

User: दो एकड़ में
Diksha: दो एकड़ के लिए करीब 8000-9000 पौधे लगेंगे। अभी मैं सिंचाई के बारे में पूछना चाहती हूं। बताओ पानी का क्या इंतजाम है?

User: मेरे पास कुआं है
Diksha: अच्छा, कुएं का पानी है। मैं आपको ड्रिप इरिगेशन का सुझाव दूंगी। पहले ये बताओ कुएं में पानी का लेवल कैसा है?

User: पानी अच्छा है, 20 फीट पर मिल जाता है
Diksha: बहुत बढ़िया! पानी अच्छा है तो टमाटर की खेती अच्छी होगी। अब मैं मिट्टी के बारे में पूछना चाहती हूं। पिछली बार कौन सी फसल लगाई थी?`

var languageNames = map[string]string{
	"hi-IN": "Hindi",
	"mr-IN": "Marathi",
	"en-IN": "English",
}

// BuildPrompt assembles the single prompt sent for one reply: persona rules,
// the call's history, the new utterance and the reply language.
func BuildPrompt(utterance string, history []session.Turn, locale string) string {
	var b strings.Builder
	b.WriteString(personaRules)
	b.WriteString("\n\nComplete conversation so far:\n")
	for _, turn := range history {
		fmt.Fprintf(&b, "User: %s\nDiksha: %s\n", turn.User, turn.Reply)
	}
	fmt.Fprintf(&b, "\nCurrent user message: %s\n", utterance)

	lang, ok := languageNames[locale]
	if !ok {
		lang = languageNames["hi-IN"]
	}
	fmt.Fprintf(&b, "Reply in %s. End every sentence with ।\n\n", lang)

	b.WriteString(exampleConversation)
	b.WriteString("\n\nRespond naturally as Diksha, using conversation history for context:")
	return b.String()
}
