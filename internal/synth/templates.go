package synth

import (
	"fmt"
	"strings"

	"github.com/ysalloum/pulsedesk/internal/intent"
	"github.com/ysalloum/pulsedesk/internal/memory"
)

// template is the deterministic fallback for one intent. The returning
// variant addresses a customer with prior history; the new variant welcomes
// a first contact. Slots: {name}, {company}, {urgency}.
type template struct {
	new       string
	returning string
}

// fallbackTemplates holds one template per intent per language. Startup
// validation guarantees full coverage of the classifier vocabulary.
var fallbackTemplates = map[string]map[intent.Label]template{
	"ar": {
		intent.PriceInquiry: {
			new:       "أهلاً {name}! يسعدنا اهتمامك بخدماتنا. سيقوم فريق المبيعات بإرسال عرض أسعار مفصل خلال وقت قصير. هل تود إخبارنا باحتياجات {company} بالتحديد؟",
			returning: "أهلاً بعودتك {name}! بخصوص استفسارك عن الأسعار، سنرسل لك عرضاً محدثاً بناءً على تعاملاتنا السابقة.",
		},
		intent.TechnicalSupport: {
			new:       "مرحباً {name}، نأسف للمشكلة التقنية. تم تسجيل طلبك بأولوية {urgency} وسيتواصل معك مختص تقني قريباً.",
			returning: "مرحباً {name}، تم تسجيل بلاغك الجديد بأولوية {urgency}. فريقنا التقني يعرف سجل حسابك وسيتابع معك مباشرة.",
		},
		intent.Complaint: {
			new:       "نعتذر بصدق عن تجربتك يا {name}. شكواك وصلت بأولوية {urgency} وسيتابعها مسؤول مختص حتى الحل.",
			returning: "نعتذر مجدداً يا {name}. نقدّر صبرك، وتم تصعيد شكواك بأولوية {urgency} لمسؤول الحسابات الخاص بك.",
		},
		intent.Greeting: {
			new:       "أهلاً وسهلاً {name}! معك فريق خدمة العملاء، كيف نقدر نخدمك اليوم؟",
			returning: "أهلاً بعودتك {name}! كيف نقدر نخدمك اليوم؟",
		},
		intent.GeneralInquiry: {
			new:       "شكراً لتواصلك {name}. وصلنا استفسارك وسنوافيك بالتفاصيل في أقرب وقت.",
			returning: "شكراً لتواصلك مجدداً {name}. وصلنا استفسارك وسنوافيك بالتفاصيل في أقرب وقت.",
		},
	},
	"en": {
		intent.PriceInquiry: {
			new:       "Hello {name}! Thanks for your interest. Our sales team will send a detailed quote shortly — could you tell us more about what {company} needs?",
			returning: "Welcome back {name}! We'll send you an updated quote based on our previous conversations.",
		},
		intent.TechnicalSupport: {
			new:       "Hello {name}, sorry about the technical trouble. Your request is logged at {urgency} priority and a technical specialist will follow up shortly.",
			returning: "Hello {name}, your new report is logged at {urgency} priority. Our technical team has your account history and will follow up directly.",
		},
		intent.Complaint: {
			new:       "We sincerely apologize, {name}. Your complaint was received at {urgency} priority and a dedicated owner will follow it through to resolution.",
			returning: "Our apologies again, {name}. We appreciate your patience — your complaint has been escalated at {urgency} priority to your account owner.",
		},
		intent.Greeting: {
			new:       "Welcome {name}! You've reached our customer care team — how can we help you today?",
			returning: "Welcome back {name}! How can we help you today?",
		},
		intent.GeneralInquiry: {
			new:       "Thanks for reaching out, {name}. We've received your inquiry and will get back to you with details shortly.",
			returning: "Thanks for reaching out again, {name}. We've received your inquiry and will get back to you with details shortly.",
		},
	},
}

const defaultLanguage = "ar"

// genericName fills the {name} slot when the profile has no display name.
var genericName = map[string]string{
	"ar": "عميلنا العزيز",
	"en": "there",
}

// genericCompany fills the {company} slot when no company was extracted.
var genericCompany = map[string]string{
	"ar": "منشأتك",
	"en": "your company",
}

// validateTemplates confirms every vocabulary intent has a fallback template
// in every supported language. Called once at startup.
func validateTemplates(vocabulary []intent.Label) error {
	for lang, table := range fallbackTemplates {
		for _, label := range vocabulary {
			tpl, ok := table[label]
			if !ok {
				return fmt.Errorf("intent %q has no %s fallback template", label, lang)
			}
			if tpl.new == "" || tpl.returning == "" {
				return fmt.Errorf("intent %q has an incomplete %s fallback template", label, lang)
			}
		}
	}
	return nil
}

// fillTemplate renders the fallback for the given intent, customer and
// returning flag.
func fillTemplate(label intent.Label, profile *memory.CustomerProfile, res intent.Result, returning bool) string {
	lang := profile.Language
	table, ok := fallbackTemplates[lang]
	if !ok {
		lang = defaultLanguage
		table = fallbackTemplates[lang]
	}

	tpl, ok := table[label]
	if !ok {
		// Startup validation makes this unreachable; degrade to the
		// general template rather than corrupt the response.
		tpl = table[intent.GeneralInquiry]
	}

	text := tpl.new
	if returning {
		text = tpl.returning
	}

	name := profile.Name
	if name == "" {
		name = genericName[lang]
	}
	company := res.Entities.Company
	if company == "" {
		company = genericCompany[lang]
	}

	r := strings.NewReplacer(
		"{name}", name,
		"{company}", company,
		"{urgency}", urgencyLabel(lang, res.Urgency),
	)
	return r.Replace(text)
}

// urgencyLabel localizes the urgency slot.
func urgencyLabel(lang string, u intent.Urgency) string {
	if lang != "ar" {
		return string(u)
	}
	switch u {
	case intent.UrgencyHigh:
		return "عالية"
	case intent.UrgencyLow:
		return "منخفضة"
	default:
		return "متوسطة"
	}
}
