package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"smart-va/internal/models"
)

// overrideConfidence is the confidence a match needs to replace a value
// collected on an earlier turn
const overrideConfidence = 0.8

// maxDescriptionLength caps the accumulated description
const maxDescriptionLength = 2000

// rule is one pattern that can supply a field value. Capture group 1 holds
// the value.
type rule struct {
	pattern      *regexp.Regexp
	confidence   float64
	accept       func(value string) bool
	normalize    func(value string) string
	requiresName bool // only applies when a name rule matched the same utterance
}

type ruleMatch struct {
	value      string
	confidence float64
}

// firstMatch evaluates rules in order and returns the first accepted value
func firstMatch(rules []rule, text string, nameFound bool) (ruleMatch, bool) {
	for _, r := range rules {
		if r.requiresName && !nameFound {
			continue
		}
		m := r.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if r.normalize != nil {
			value = r.normalize(value)
		}
		if value == "" || (r.accept != nil && !r.accept(value)) {
			continue
		}
		return ruleMatch{value: value, confidence: r.confidence}, true
	}
	return ruleMatch{}, false
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9][A-Za-z0-9._%+-]*@[A-Za-z0-9][A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// emailPhrase removes "my email" style phrases before category inference
var emailPhrase = regexp.MustCompile(`(?i)\b(?:my|your|an?|the)\s+e-?mail(?:\s+address)?\b`)

var nameStopwords = wordSet(
	"a", "an", "the", "and", "but", "or", "so", "i", "im", "i'm", "my", "me", "we", "you",
	"is", "in", "for", "to", "of", "on", "at", "with", "from", "here", "just", "also", "very", "not",
	"looking", "interested", "need", "needs", "want", "wanting", "trying", "going", "calling",
	"writing", "reaching", "working", "work", "currently", "available", "new", "glad", "happy",
	"sorry", "hi", "hello", "hey", "email", "please", "thanks", "thank", "ok", "okay", "yes", "no",
	"sure", "great", "perfect", "tomorrow", "today", "back", "anytime", "later", "asap", "urgent",
	"travel", "planning", "management", "research", "support", "help",
)

var companyStopwords = wordSet(
	"and", "for", "as", "in", "on", "where", "but", "i", "we", "doing", "who", "which", "that",
	"my", "our", "to", "with", "since", "because", "now",
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// cutAtStopword keeps the leading words of value up to the first stopword
// and strips trailing punctuation
func cutAtStopword(value string, stopwords map[string]bool) string {
	words := strings.Fields(value)
	kept := words[:0]
	for _, w := range words {
		bare := strings.ToLower(strings.TrimRight(w, ".,!?;:"))
		if stopwords[bare] {
			break
		}
		kept = append(kept, w)
		if bare != strings.ToLower(w) {
			// punctuation ends the phrase
			break
		}
	}
	return strings.TrimRight(strings.Join(kept, " "), ".,!?;:'-")
}

func normalizeName(value string) string {
	return cutAtStopword(value, nameStopwords)
}

func normalizeCompany(value string) string {
	return cutAtStopword(value, companyStopwords)
}

func plausibleName(value string) bool {
	if len(value) <= 2 || len(value) >= 50 {
		return false
	}
	return !models.IsValidCategory(models.NormalizeCategory(value))
}

func capitalizedName(value string) bool {
	if !plausibleName(value) {
		return false
	}
	first := value[0]
	return first >= 'A' && first <= 'Z'
}

func plausibleCompany(value string) bool {
	return len(value) > 2 && len(value) < 100
}

const nameWords = `([A-Za-z][A-Za-z'.\-]*(?:\s+[A-Za-z][A-Za-z'.\-]*){0,3})`

var nameRules = []rule{
	{
		pattern:    regexp.MustCompile(`(?i)\b(?:my name is|my name's|call me)\s+` + nameWords),
		confidence: 0.9,
		normalize:  normalizeName,
		accept:     plausibleName,
	},
	{
		pattern:    regexp.MustCompile(`(?i)\b(?:i'm|i am|this is)\s+` + nameWords),
		confidence: 0.7,
		normalize:  normalizeName,
		accept:     capitalizedName,
	},
	{
		pattern:    regexp.MustCompile(`^\s*(?:(?i:hi|hello|hey)[,!]?\s+)?([A-Z][A-Za-z'\-]*(?:\s+[A-Z][A-Za-z'\-]*){0,3})(?:\s+(?i:here|from|at|with)\b|\s*,)`),
		confidence: 0.6,
		normalize:  normalizeName,
		accept:     capitalizedName,
	},
}

var emailRules = []rule{
	{pattern: regexp.MustCompile(`(` + emailPattern.String() + `)`), confidence: 1.0},
}

const companyWords = `([A-Za-z0-9][A-Za-z0-9&'.\-]*(?:\s+[A-Za-z0-9&][A-Za-z0-9&'.\-]*){0,3})`

var companyRules = []rule{
	{
		pattern:    regexp.MustCompile(`(?i)\b(?:work at|working at|employed at|work for|working for|company is)\s+` + companyWords),
		confidence: 0.8,
		normalize:  normalizeCompany,
		accept:     plausibleCompany,
	},
	{
		pattern:      regexp.MustCompile(`(?i)\bfrom\s+` + companyWords),
		confidence:   0.6,
		normalize:    normalizeCompany,
		accept:       plausibleCompany,
		requiresName: true,
	},
	{
		pattern:    regexp.MustCompile(`\b([A-Z][A-Za-z0-9&'\-]*(?:\s+[A-Z][A-Za-z0-9&'\-]*){0,3}\s+(?:Inc|LLC|Ltd|Corp|Corporation|Company|Solutions|Services|Technologies|Tech))\b`),
		confidence: 0.7,
		accept:     plausibleCompany,
	},
}

const (
	monthDay = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?`
	weekday  = `(?:mon|tues|wednes|thurs|fri|satur|sun)day`
	dateExpr = `(?:(?:the\s+)?end\s+of\s+(?:the\s+)?(?:day|week|month|quarter|year)|next\s+(?:week|month|year|` + weekday + `)|this\s+(?:week|weekend|month|` + weekday + `)|tomorrow|today|tonight|` + weekday + `|` + monthDay + `|\d{1,2}/\d{1,2}(?:/\d{2,4})?|\d{1,2}-\d{1,2}(?:-\d{2,4})?)`
)

var deadlineRules = []rule{
	{
		pattern:    regexp.MustCompile(`(?i)\b(?:by|before|until|due(?:\s+(?:by|on))?|deadline(?:\s+is)?:?)\s+(` + dateExpr + `)\b`),
		confidence: 0.9,
		accept:     validNumericDate,
	},
	{pattern: regexp.MustCompile(`(?i)\b(` + monthDay + `)\b`), confidence: 0.8},
	{
		pattern:    regexp.MustCompile(`(?i)\b(tomorrow|next week|next month|end of (?:the )?week|end of (?:the )?month|asap|immediately)\b`),
		confidence: 0.7,
		normalize:  normalizeUrgentDeadline,
	},
	{pattern: regexp.MustCompile(`\b(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\b`), confidence: 0.7, accept: validNumericDate},
	{pattern: regexp.MustCompile(`\b(\d{1,2}-\d{1,2}(?:-\d{2,4})?)\b`), confidence: 0.6, accept: validNumericDate},
}

var numericDate = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})`)

// validNumericDate rejects numeric shapes that cannot be a month/day pair.
// Non-numeric values pass.
func validNumericDate(value string) bool {
	m := numericDate.FindStringSubmatch(value)
	if m == nil {
		return true
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func normalizeUrgentDeadline(value string) string {
	switch strings.ToLower(value) {
	case "asap", "immediately":
		return "ASAP"
	}
	return value
}

type priorityRule struct {
	priority models.Priority
	pattern  *regexp.Regexp
}

// priorityRules are checked highest first
var priorityRules = []priorityRule{
	{models.PriorityUrgent, regexp.MustCompile(`(?i)\b(?:urgent|asap|immediately|critical|emergency)\b`)},
	{models.PriorityHigh, regexp.MustCompile(`(?i)\b(?:high priority|important|soon|quickly)\b`)},
	{models.PriorityLow, regexp.MustCompile(`(?i)\b(?:low priority|when possible|no rush|whenever)\b`)},
}

type categoryRule struct {
	label   string
	pattern *regexp.Regexp
}

// categoryRules are scanned in order; the first matching group wins
var categoryRules = []categoryRule{
	{"Calendar Management", regexp.MustCompile(`(?i)\b(?:meeting|schedule|calendar|appointment|call|conference|zoom|teams)`)},
	{"Email Management", regexp.MustCompile(`(?i)\b(?:email|communication|newsletter|campaign|outreach|correspondence)`)},
	{"Research & Analysis", regexp.MustCompile(`(?i)\b(?:research|find|search|analyze|investigation|study|report)`)},
	{"Travel Planning", regexp.MustCompile(`(?i)\b(?:travel|trip|booking|hotel|flight|accommodation|itinerary)`)},
	{"Social Media Management", regexp.MustCompile(`(?i)\b(?:social media|facebook|twitter|instagram|linkedin|social|content|post)`)},
	{"Data Processing", regexp.MustCompile(`(?i)\b(?:data entry|spreadsheet|excel|database|input|organize|filing)`)},
	{"Project Management", regexp.MustCompile(`(?i)\b(?:project|manage|coordinate|timeline|milestone|deliverable)`)},
	{"Customer Support", regexp.MustCompile(`(?i)\b(?:customer|client|support|service|help|assistance|inquiry)`)},
	{"Administrative Support", regexp.MustCompile(`(?i)\b(?:admin|administrative|document|file|organize|paperwork)`)},
	{"Content Creation", regexp.MustCompile(`(?i)\b(?:content|writing|blog|article|copy|marketing|website)`)},
	{"Financial Tasks", regexp.MustCompile(`(?i)\b(?:invoice|expense|bookkeeping|budget analysis|accounting|payroll)`)},
}

// categoryQuestions are the follow-up questions asked once a category is known
var categoryQuestions = map[string]string{
	"Administrative Support": "What type of administrative tasks do you need help with? (document management, correspondence, data entry, filing, scheduling) What's the volume and frequency? Any specific software or systems involved?",
	"Calendar Management":    "What type of scheduling assistance do you need? (personal calendar, team coordination, client meetings, recurring events) Which calendar systems do you use? Any specific time zones or scheduling constraints?",
	"Email Management":       "What email assistance do you need? (inbox organization, response drafting, campaign management, newsletter creation) What's your current email volume and main pain points?",
	"Research & Analysis":    "What research topic and scope are you looking for? What type of deliverable do you need? (report, presentation, data compilation) What sources should be included and what's your target timeline?",
	"Travel Planning":        "Where and when do you need to travel? What's your budget range? Any preferences for airlines, hotels, or special requirements? Is this business or leisure travel?",
	"Data Processing":        "What type of data work do you need? (entry, analysis, spreadsheet creation, database management) What's the data source and desired output format? Any specific tools required?",
	"Customer Support":       "What support channels need coverage? (email, phone, chat, social media) What's your customer base size? Any existing scripts or knowledge base? What are your response time expectations?",
	"Financial Tasks":        "What financial assistance do you need? (expense tracking, invoice management, budget analysis, bookkeeping) Which software do you use? What's the scope and frequency of work needed?",
}

const genericCategoryQuestion = "specific requirements, timeline, and expected outcomes?"

// CategoryQuestion returns the follow-up question for a category label or slug
func CategoryQuestion(category string) string {
	if q, ok := categoryQuestions[category]; ok {
		return q
	}
	if q, ok := categoryQuestions[models.CategoryLabel(models.NormalizeCategory(category))]; ok {
		return q
	}
	return genericCategoryQuestion
}

var (
	readyNextSteps = []string{
		"Review and confirm project requirements",
		"Set up communication schedule",
		"Begin initial task execution",
		"Provide progress updates",
	}
	pendingNextSteps = []string{
		"Provide missing information",
		"Clarify any requirements",
		"Confirm details and timeline",
	}
)

const (
	pendingTimeline         = "Timeline will be provided once all requirements are gathered"
	defaultCommunication    = string(models.CommunicationEmail)
	updateInterval          = "24 hours"
	greetingPrompt          = "Hello! I'm ARIA, your Virtual Assistant. To get started, could you please tell me your name?"
	deadlinePrompt          = "Thank you for those details! To prioritize this properly, when do you need this completed? Is there a specific deadline or timeline I should be aware of?"
	categoryPromptFormat    = "Perfect! I have your contact details, %s. What can I help you with today? I specialize in meeting management, email support, research, travel planning, project coordination, content creation, and administrative tasks. What type of assistance do you need?"
	emailPromptFormat       = "Hi %s! It's great to meet you. Could you please provide your email address so I can keep you updated on our progress?"
	preselectedPromptFormat = "Perfect! I see you need help with %s. Let me gather the specific details to provide you with the best assistance. %s"
	inferredPromptFormat    = "Excellent! For %s, I'll need some more details to ensure I deliver exactly what you need. Could you tell me about: %s"
	readyPromptFormat       = "Perfect! I have all the information needed to get started on your %s request%s. Based on what you've shared, I'll begin working on this and provide regular updates via email at %s. You can expect an initial progress report within %s."
	readyTimelineFormat     = "Initial progress within %s, completion by %s"
	readyTimelineNoDeadline = "Initial progress within %s, full completion timeline to be confirmed based on project scope"
)

// Extractor is the rule-based conversational extractor. It has no state and
// never fails.
type Extractor struct{}

// NewExtractor creates an extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Name identifies the responder in logs
func (e *Extractor) Name() string {
	return "rule-based"
}

// Respond implements Responder
func (e *Extractor) Respond(_ context.Context, input models.ChatInput) (*models.ChatReply, error) {
	reply := e.Reply(input.Message, input.State)
	return &reply, nil
}

// Extract returns prev updated with whatever message supplies
func (e *Extractor) Extract(message string, prev models.ConversationState) models.ConversationState {
	state, _ := extract(message, prev)
	return state
}

// Reply runs one turn: it extracts fields from message and picks the next prompt
func (e *Extractor) Reply(message string, prev models.ConversationState) models.ChatReply {
	state, _ := extract(message, prev)
	return BuildReply(state)
}

func extract(message string, prev models.ConversationState) (models.ConversationState, bool) {
	state := prev
	withoutEmails := emailPattern.ReplaceAllString(message, " ")

	name, nameFound := firstMatch(nameRules, withoutEmails, false)
	email, emailFound := firstMatch(emailRules, message, false)
	company, companyFound := firstMatch(companyRules, withoutEmails, nameFound)
	personalInfo := nameFound || emailFound || companyFound

	if nameFound && (state.Name == "" || name.confidence >= overrideConfidence) {
		state.Name = name.value
	}
	if emailFound && (state.Email == "" || email.confidence >= overrideConfidence) {
		state.Email = email.value
	}
	if companyFound && state.Company == "" {
		state.Company = company.value
	}

	if state.Deadline == "" {
		if deadline, ok := firstMatch(deadlineRules, message, false); ok {
			state.Deadline = deadline.value
		}
	}

	state.Priority = inferPriority(message, state.Priority)
	if state.Priority == string(models.PriorityUrgent) && state.Deadline == "" {
		state.Deadline = "ASAP"
	}

	if state.TaskCategory == "" {
		state.TaskCategory = inferCategory(emailPhrase.ReplaceAllString(withoutEmails, " "))
	}

	if state.TaskCategory != "" && !personalInfo {
		state.Description = mergeDescription(state, message)
	}

	if state.CommunicationMethod == "" {
		state.CommunicationMethod = defaultCommunication
	}

	return state, personalInfo
}

func inferPriority(message, previous string) string {
	for _, r := range priorityRules {
		if r.pattern.MatchString(message) {
			return string(r.priority)
		}
	}
	if previous != "" {
		return previous
	}
	return string(models.PriorityMedium)
}

func inferCategory(text string) string {
	for _, r := range categoryRules {
		if r.pattern.MatchString(text) {
			return r.label
		}
	}
	return ""
}

// mergeDescription replaces an empty (or name-echo) description with the
// utterance and otherwise appends it unless already contained
func mergeDescription(state models.ConversationState, message string) string {
	utterance := strings.TrimSpace(message)
	current := state.Description
	if utterance == "" {
		return current
	}
	label := models.CategoryLabel(models.NormalizeCategory(state.TaskCategory))
	if strings.EqualFold(utterance, models.ServiceSelectionMessage(label)) ||
		strings.EqualFold(utterance, models.ServiceSelectionMessage(state.TaskCategory)) {
		return current
	}

	var merged string
	switch {
	case current == "" || current == state.Name:
		merged = utterance
	case strings.Contains(current, utterance):
		merged = current
	default:
		merged = current + " " + utterance
	}
	if runes := []rune(merged); len(runes) > maxDescriptionLength {
		merged = string(runes[:maxDescriptionLength])
	}
	return merged
}

// BuildReply chooses the next prompt for state. The first unmet field
// decides the prompt and is the only entry of MissingFields.
func BuildReply(state models.ConversationState) models.ChatReply {
	reply := models.ChatReply{
		CollectedData:      state,
		NeedsMoreInfo:      true,
		MissingFields:      []string{},
		SuggestedNextSteps: append([]string(nil), pendingNextSteps...),
		EstimatedTimeline:  pendingTimeline,
	}

	missing := state.Missing()
	if missing != "" {
		reply.MissingFields = []string{missing}
	}

	switch missing {
	case "name":
		reply.Message = greetingPrompt
	case "email":
		reply.Message = fmt.Sprintf(emailPromptFormat, state.Name)
	case "taskCategory":
		reply.Message = fmt.Sprintf(categoryPromptFormat, state.Name)
	case "description":
		question := CategoryQuestion(state.TaskCategory)
		if state.ServicePreSelected {
			reply.Message = fmt.Sprintf(preselectedPromptFormat, state.TaskCategory, question)
		} else {
			reply.Message = fmt.Sprintf(inferredPromptFormat, state.TaskCategory, question)
		}
	case "deadline":
		reply.Message = deadlinePrompt
	default:
		reply.Ready = true
		reply.NeedsMoreInfo = false
		reply.SuggestedNextSteps = append([]string(nil), readyNextSteps...)
		reply.Message = fmt.Sprintf(readyPromptFormat,
			strings.ToLower(state.TaskCategory), deadlineClause(state.Deadline), state.Email, updateInterval)
		reply.EstimatedTimeline = readyTimeline(state.Deadline)
	}

	return reply
}

func deadlineClause(deadline string) string {
	if deadline == "" {
		return ""
	}
	return fmt.Sprintf(" with a %s deadline", deadline)
}

func readyTimeline(deadline string) string {
	if deadline == "" {
		return fmt.Sprintf(readyTimelineNoDeadline, updateInterval)
	}
	return fmt.Sprintf(readyTimelineFormat, updateInterval, deadline)
}
