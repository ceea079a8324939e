package webhook

import (
	"fmt"

	"rental_leads_backend/internal/qualification"
)

// Spanish dialogue copy. One generic question per field plus a clarifying
// variant used when the lead tried to answer and the extractor could not
// read it.

var questions = map[qualification.Field]string{
	qualification.FieldName:         "¡Hola! Soy el asistente de rentas. ¿Con quién tengo el gusto? 😊",
	qualification.FieldHeight:       "¿A qué altura necesitas trabajar? Puedes decirme en metros o en pies.",
	qualification.FieldLiftType:     "¿Qué tipo de plataforma necesitas: articulada (brazo) o de tijera?",
	qualification.FieldActivity:     "¿Para qué actividad la vas a usar? Por ejemplo pintura o trabajo general.",
	qualification.FieldTerrain:      "¿El terreno donde se usará es firme (concreto/pavimento) o sin pavimentar?",
	qualification.FieldCity:         "¿En qué ciudad necesitas el equipo?",
	qualification.FieldDurationDays: "¿Por cuántos días necesitas la renta?",
	qualification.FieldContactEmail: "¿A qué correo te enviamos la cotización?",
}

var retryQuestions = map[qualification.Field]string{
	qualification.FieldName:         "Perdón, no logré captar tu nombre. ¿Me lo repites, por favor?",
	qualification.FieldHeight:       "No me quedó clara la altura. ¿Me la das en metros o pies? Por ejemplo: \"12 metros\" o \"40 pies\".",
	qualification.FieldLiftType:     "No identifiqué el tipo de plataforma. ¿Es articulada (de brazo) o de tijera?",
	qualification.FieldActivity:     "No me quedó clara la actividad. ¿Es para pintura o para trabajo general?",
	qualification.FieldTerrain:      "No entendí bien el tipo de terreno. ¿Es piso firme o terreno sin pavimentar?",
	qualification.FieldCity:         "No logré identificar la ciudad. ¿Me dices en qué ciudad sería la renta?",
	qualification.FieldDurationDays: "No entendí la duración. ¿Cuántos días necesitas el equipo? Por ejemplo: \"5 días\".",
	qualification.FieldContactEmail: "Ese correo no parece válido. ¿Me lo compartes de nuevo?",
}

const alreadyQuotedMessage = "Tu cotización ya está lista y te la enviamos por este medio. 📄 Si necesitas ajustar algo o cotizar otro equipo, escríbenos \"nueva cotización\" o llámanos."

const quoteFailedMessage = "Estamos preparando tu cotización, en un momento te la compartimos. 🙌"

// QuestionFor returns the prompt to send for the next unresolved field.
func QuestionFor(field qualification.Field, retry bool) string {
	if retry {
		if q, ok := retryQuestions[field]; ok {
			return q
		}
	}
	if q, ok := questions[field]; ok {
		return q
	}
	return questions[qualification.FieldHeight]
}

// QuoteCaption builds the message accompanying the quote PDF.
func QuoteCaption(name, quoteNumber string, total int64) string {
	greeting := "¡Listo!"
	if name != "" {
		greeting = fmt.Sprintf("¡Listo, %s!", name)
	}
	return fmt.Sprintf("%s Aquí tienes tu cotización %s. El total de la opción solicitada es de $%d MXN (IVA incluido). Cualquier duda, con gusto te ayudamos. 🙌", greeting, quoteNumber, total)
}
