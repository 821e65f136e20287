package intent

// intentDef declares one intent's trigger vocabulary. The English and Arabic
// triggers live in the same list; the matching algorithm is language-blind.
// Markers are high-signal phrases that lift confidence past the normal cap.
type intentDef struct {
	label    Label
	triggers []string
	markers  []string
}

// intentDefs is the classification table. Order matters: ties between equal
// match counts resolve to the earlier entry.
var intentDefs = []intentDef{
	{
		label: PriceInquiry,
		triggers: []string{
			"price", "cost", "how much", "quote", "discount", "offer", "subscription",
			"سعر", "اسعار", "تكلفة", "كم", "عرض سعر", "خصم", "اشتراك", "باقة",
		},
		markers: []string{"عرض سعر", "quote"},
	},
	{
		label: TechnicalSupport,
		triggers: []string{
			"error", "bug", "crash", "not working", "install", "setup", "integration", "api", "login",
			"خطأ", "عطل", "لا يعمل", "توقف", "تركيب", "اعداد", "ربط", "تسجيل الدخول",
		},
		markers: []string{"not working", "لا يعمل"},
	},
	{
		label: Complaint,
		triggers: []string{
			"complaint", "unhappy", "disappointed", "terrible", "refund", "cancel",
			"شكوى", "غير راضي", "زعلان", "سيء", "استرجاع", "الغاء",
		},
		markers: []string{"complaint", "شكوى"},
	},
	{
		label: Greeting,
		triggers: []string{
			"hello", "hi", "hey", "good morning", "good evening",
			"مرحبا", "اهلا", "أهلا", "السلام عليكم", "صباح الخير", "مساء الخير",
		},
		markers: []string{"السلام عليكم"},
	},
	{
		label: GeneralInquiry,
		triggers: []string{
			"info", "information", "question", "details", "about",
			"معلومات", "استفسار", "سؤال", "تفاصيل",
		},
	},
}

// urgencyDefs maps urgency tiers to their trigger lists. High is checked
// before low; no match resolves to medium.
var urgencyDefs = []struct {
	tier     Urgency
	triggers []string
}{
	{UrgencyHigh, []string{
		"urgent", "immediately", "now", "asap", "emergency", "critical",
		"عاجل", "فورا", "الان", "الآن", "ضروري", "طارئ",
	}},
	{UrgencyLow, []string{
		"whenever", "no rush", "later", "sometime", "eventually",
		"لاحقا", "لاحقاً", "براحتك", "مو مستعجل", "وقت ما تقدر",
	}},
}

// categoryByIntent maps each intent to its business category.
var categoryByIntent = map[Label]Category{
	PriceInquiry:     CategorySales,
	TechnicalSupport: CategoryTechnical,
	Complaint:        CategorySupport,
	Greeting:         CategoryGeneral,
	GeneralInquiry:   CategoryGeneral,
}

// specialistByIntent maps each intent to the recommended specialist id.
// The directory may still override this through scoring.
var specialistByIntent = map[Label]string{
	PriceInquiry:     "sales",
	TechnicalSupport: "technical",
	Complaint:        "support",
	Greeting:         "general",
	GeneralInquiry:   "general",
}

const (
	defaultCategory   = CategoryGeneral
	defaultSpecialist = "general"
)
