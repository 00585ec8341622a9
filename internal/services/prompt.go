package services

import (
	"fmt"
	"strings"

	"najahtn/orientation-api/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// assistantPersona is the Arabic persona of the orientation assistant. Product
// copy; the engineering contract is only (system prompt + history) in,
// generated text out.
const assistantPersona = `أنت مستشار توجيه جامعي تونسي خبير. مهمتك مساعدة حاملي شهادة الباكالوريا على فهم نتائجهم واختيار التوجيه الجامعي المناسب.

قواعدك:
- أجب دائماً باللغة العربية وبأسلوب واضح ومشجع.
- اعتمد على صيغ احتساب مجموع النقاط (FG) الرسمية وعلى مجاميع القبول التاريخية عند توفرها.
- إذا سُئلت عن موضوع خارج التوجيه الجامعي التونسي، اعتذر بلطف ووجّه المحادثة نحو اختصاصك.
- لا تخترع أرقاماً أو مجاميع قبول غير موجودة في السياق المعطى.`

// BuildSystemPrompt assembles the assistant persona, optionally extended with
// free-text context about the current page or the user's profile.
func (pb *PromptBuilder) BuildSystemPrompt(pageContext string) string {
	pageContext = strings.TrimSpace(pageContext)
	if pageContext == "" {
		return assistantPersona
	}
	return fmt.Sprintf("%s\n\nسياق الصفحة الحالية:\n%s", assistantPersona, pageContext)
}

// BuildComparisonPrompt asks the model for a free-text analysis of two
// programs for a given user score. The prose is stored verbatim; nothing in
// it is parsed.
func (pb *PromptBuilder) BuildComparisonPrompt(userScore float64, first, second models.ProgramView, firstCat, secondCat models.AdmissionCategory) string {
	return fmt.Sprintf(`أنت مستشار توجيه جامعي تونسي. قارن بين التوجيهين التاليين لطالب مجموع نقاطه %.2f.

التوجيه الأول:
%s

التوجيه الثاني:
%s

التصنيف المحلي (محسوب مسبقاً، لا تعد حسابه): الأول «%s»، الثاني «%s».

قدّم تحليلاً باللغة العربية في 4 إلى 6 جمل يشمل: حظوظ القبول في كل توجيه بالنظر إلى المجاميع التاريخية، آفاق التكوين والتشغيل، وتوصية نهائية واضحة.`,
		userScore,
		formatProgram(first),
		formatProgram(second),
		firstCat, secondCat)
}

func formatProgram(p models.ProgramView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- الرمز: %s\n", p.Code)
	fmt.Fprintf(&b, "- الاختصاص: %s\n", p.Specialization)
	fmt.Fprintf(&b, "- المؤسسة: %s (%s)\n", p.Institution, p.University)
	fmt.Fprintf(&b, "- الجهة: %s\n", p.Location)
	fmt.Fprintf(&b, "- شعبة الباكالوريا: %s\n", p.BacTypeName)
	if p.Stats.Latest != nil {
		fmt.Fprintf(&b, "- آخر مجموع قبول: %.2f (سنة %d)\n", p.Stats.Latest.Score, p.Stats.Latest.Year)
		fmt.Fprintf(&b, "- معدل آخر السنوات: %.2f، الاتجاه: %s\n", p.Stats.AverageScore, p.Stats.Trend)
	} else {
		b.WriteString("- لا توجد مجاميع قبول تاريخية\n")
	}
	if p.SevenPercent {
		b.WriteString("- يدخل في نظام السبعة بالمائة\n")
	}
	return b.String()
}
