package qualification

// Resolution is the resolver's verdict for one turn: the next field to ask
// for, the full ordered list of unmet fields, and whether this turn looks
// like a failed attempt to answer the current next field.
type Resolution struct {
	Next    Field
	Missing []Field
	Retry   bool
}

// Complete reports whether every required field is resolved.
func (r Resolution) Complete() bool {
	return len(r.Missing) == 0
}

// ResolveParams carries the per-turn inputs the resolver needs beyond the
// record itself.
type ResolveParams struct {
	LeadHasName  bool
	RequireEmail bool
	// SelfReportedMissing is the extractor's set of fields it could not find.
	SelfReportedMissing []Field
	// HadText reports whether the inbound turn contained non-empty text.
	HadText bool
}

// Resolve computes the ordered list of unresolved fields for the record.
// The first unmet field in the fixed priority order becomes Next. Retry is
// set when the extractor itself reported Next as unfindable while the turn
// did contain text: the user tried to answer and failed, so the dialogue
// should re-ask with a clarifying prompt instead of the generic question.
func Resolve(q *Qualification, params ResolveParams) Resolution {
	missing := make([]Field, 0, len(questionOrder))

	for _, field := range questionOrder {
		switch field {
		case FieldName:
			if !params.LeadHasName {
				missing = append(missing, field)
			}
		case FieldContactEmail:
			if params.RequireEmail && !q.Has(field) {
				missing = append(missing, field)
			}
		default:
			if !q.Has(field) {
				missing = append(missing, field)
			}
		}
	}

	res := Resolution{Missing: missing}
	if len(missing) == 0 {
		return res
	}

	res.Next = missing[0]
	if params.HadText && containsField(params.SelfReportedMissing, res.Next) {
		res.Retry = true
	}
	return res
}

func containsField(fields []Field, target Field) bool {
	for _, f := range fields {
		if f == target {
			return true
		}
	}
	return false
}
