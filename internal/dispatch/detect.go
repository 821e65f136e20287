package dispatch

import "strings"

// commandDef binds one command family to its trigger phrases. The vocabulary
// is bilingual and disjoint from the conversational intent vocabulary; the
// slice order is the evaluation priority, telephony first so call requests
// are never swallowed by conversational handling.
type commandDef struct {
	command  string
	triggers []string
}

var commandDefs = []commandDef{
	{
		command: CommandCall,
		triggers: []string{
			"اتصل", "اتصال بالعميل", "كلم العميل",
			"call ", "dial ", "phone ",
		},
	},
	{
		command: CommandBulkSend,
		triggers: []string{
			"أرسل رسالة", "ارسل رسالة", "أرسل للجميع", "ارسل للجميع",
			"راسل جميع", "راسل كل",
			"send to all", "message all", "broadcast", "bulk message",
		},
	},
	{
		command: CommandReport,
		triggers: []string{
			"تقرير",
			"pipeline report", "sales report", "status report", "summary report",
		},
	},
	{
		command: CommandWorkflow,
		triggers: []string{
			"سير عمل", "أتمتة",
			"workflow", "automation",
		},
	},
}

// stageTerm maps audience phrasing to a canonical pipeline stage.
type stageTerm struct {
	phrase string
	stage  string
}

var stageTerms = []stageTerm{
	{"التفاوض", "negotiation"},
	{"تفاوض", "negotiation"},
	{"محتمل", "lead"},
	{"مؤهل", "qualified"},
	{"negotiation", "negotiation"},
	{"proposal", "proposal"},
	{"qualified", "qualified"},
	{"lead", "lead"},
	{"won", "won"},
	{"lost", "lost"},
}

// detectCommand returns the first command family whose trigger appears in the
// message, or "" when the message is purely conversational.
func detectCommand(message string) string {
	lowered := strings.ToLower(message)
	for _, def := range commandDefs {
		for _, trigger := range def.triggers {
			if strings.Contains(lowered, trigger) {
				return def.command
			}
		}
	}
	return ""
}

// detectStage scopes a bulk send to one pipeline stage when the message names
// one; "" means the full customer audience.
func detectStage(message string) string {
	lowered := strings.ToLower(message)
	for _, term := range stageTerms {
		if strings.Contains(lowered, term.phrase) {
			return term.stage
		}
	}
	return ""
}
