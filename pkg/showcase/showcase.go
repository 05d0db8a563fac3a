// Package showcase builds the demo catalog: one section per widget family,
// filled with placeholder data, in the order a reader walks through them.
package showcase

import (
	"math/rand"
	"time"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

// FormID is the identifier of the sign-up form section.
const FormID = "회원가입_폼"

// DefaultSeed seeds the chart data so every build draws the same charts.
const DefaultSeed int64 = 42

// Option configures the showcase catalog.
type Option func(*config)

type config struct {
	now  func() time.Time
	seed int64
}

// WithClock sets the clock behind the date and time defaults.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSeed changes the seed of the random chart data.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// Catalog builds the showcase catalog.
func Catalog(opts ...Option) (*model.Catalog, error) {
	cfg := config{now: time.Now, seed: DefaultSeed}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	root, err := model.NewSectionBuilder("showcase", "UI 요소 모음", model.Plain).
		Text("page_title", model.TextTitle, "📚 UI 요소 종합 가이드").
		Text("intro_divider", model.TextDivider, "").
		Section(textSection()).
		Section(inputSection(cfg)).
		Section(buttonSection()).
		Section(dataSection()).
		Section(chartSection(rand.New(rand.NewSource(cfg.seed)))).
		Section(alertSection()).
		Section(formSection()).
		Section(layoutSection()).
		Section(specialSection()).
		Section(fileSection()).
		Text("done_header", model.TextHeader, "완료!").
		Text("done_text", model.TextPlain, "모든 UI 요소를 확인했습니다! 🎉").
		Build()
	if err != nil {
		return nil, err
	}
	return model.NewCatalog(root)
}

// MustCatalog panics when Catalog fails.
func MustCatalog(opts ...Option) *model.Catalog {
	catalog, err := Catalog(opts...)
	if err != nil {
		panic(err)
	}
	return catalog
}

func column(id string) *model.SectionBuilder {
	return model.NewSectionBuilder(id, "", model.Plain)
}

func textSection() *model.SectionBuilder {
	return model.NewSectionBuilder("text_elements", "1️⃣ 텍스트 요소", model.Plain).
		Text("write_text", model.TextMarkdown, "**write**: 가장 기본적인 텍스트 및 데이터 출력").
		Text("header_text", model.TextHeader, "헤더 텍스트").
		Text("subheader_text", model.TextSubheader, "서브헤더 텍스트").
		Text("caption_text", model.TextCaption, "캡션 텍스트 - 작고 회색").
		Text("code_text", model.TextCode, "print('코드 블록')", model.WithLanguage("python")).
		Text("plain_text", model.TextPlain, "일반 텍스트").
		Text("markdown_text", model.TextMarkdown, "**마크다운 텍스트**\n- 리스트 항목 1\n- 리스트 항목 2\n  - 중첩 항목\n")
}

func inputSection(cfg config) *model.SectionBuilder {
	clock := model.WithClock(cfg.now)

	return model.NewSectionBuilder("inputs", "2️⃣ 입력 요소", model.Plain).
		Section(model.NewSectionBuilder("text_inputs", "", model.Columns(2)).
			Section(column("text_inputs_left").
				Widget("name", model.KindSingleLineInput,
					model.WithLabel("이름 입력"),
					model.WithPlaceholder("이름을 입력하세요")).
				Text("name_greeting", model.TextPlain, "안녕하세요, {{ name }}님!", model.WithVisibleWhen("name")).
				Widget("message", model.KindMultiLineInput,
					model.WithLabel("메시지 입력"),
					model.WithPlaceholder("여러 줄의 텍스트를 입력하세요"),
					model.WithHints(map[string]string{"rows": "4"}))).
			Section(column("text_inputs_right").
				Widget("age", model.KindNumericInput,
					model.WithLabel("나이 입력"),
					model.WithConstraints(model.Constraints{Min: model.Float(0), Max: model.Float(150)}),
					model.WithDefault(25)).
				Widget("price", model.KindSlider,
					model.WithLabel("가격 선택"),
					model.WithConstraints(model.Constraints{Min: model.Float(0), Max: model.Float(100000), Step: model.Float(1000)}),
					model.WithDefault(50000)).
				Text("price_text", model.TextPlain, "선택된 가격: ₩{{ price|comma }}"))).
		Text("choices_header", model.TextSubheader, "선택 요소").
		Section(model.NewSectionBuilder("choices", "", model.Columns(3)).
			Widget("category", model.KindSingleSelect,
				model.WithLabel("카테고리 선택"),
				model.WithOptions("선택해주세요", "전자제품", "의류", "음식", "책")).
			Widget("languages", model.KindMultiSelect,
				model.WithLabel("복수 선택"),
				model.WithOptions("파이썬", "자바", "자바스크립트", "C++", "Go"),
				model.WithDefault([]string{"파이썬"})).
			Widget("choice", model.KindRadio,
				model.WithLabel("라디오 버튼"),
				model.WithOptions("옵션 A", "옵션 B", "옵션 C"))).
		Text("toggles_header", model.TextSubheader, "토글 및 체크박스").
		Section(model.NewSectionBuilder("toggles", "", model.Columns(2)).
			Section(column("toggles_left").
				Widget("agree", model.KindCheckbox, model.WithLabel("동의합니다")).
				Text("agree_thanks", model.TextSuccess, "✅ 감사합니다!", model.WithVisibleWhen("agree"))).
			Section(column("toggles_right").
				Widget("notifications", model.KindToggle,
					model.WithLabel("알림 켜기/끄기"),
					model.WithDefault(true)).
				Text("notifications_on", model.TextInfo, "알림이 활성화되었습니다", model.WithVisibleWhen("notifications")))).
		Text("datetime_header", model.TextSubheader, "날짜 및 시간").
		Section(model.NewSectionBuilder("datetime", "", model.Columns(2)).
			Widget("date", model.KindDateInput, model.WithLabel("날짜 선택"), clock).
			Widget("time", model.KindTimeInput, model.WithLabel("시간 선택"), clock)).
		Widget("color", model.KindColorInput, model.WithLabel("색상 선택"), model.WithDefault("#00f900"))
}

func buttonSection() *model.SectionBuilder {
	return model.NewSectionBuilder("buttons", "3️⃣ 버튼 및 상호작용", model.Columns(3)).
		Section(column("buttons_normal").
			Widget("click_button", model.KindButton, model.WithLabel("일반 버튼")).
			Text("click_done", model.TextSuccess, "버튼이 클릭되었습니다!", model.WithVisibleWhen("click_button"))).
		Section(column("buttons_download").
			Widget("download_button", model.KindButton, model.WithLabel("다운로드 버튼")).
			Text("download_note", model.TextPlain, "다운로드 기능 예시", model.WithVisibleWhen("download_button"))).
		Section(column("buttons_danger").
			Widget("danger_button", model.KindButton,
				model.WithLabel("위험 버튼"),
				model.WithHints(map[string]string{"variant": "danger"})).
			Text("danger_warning", model.TextError, "⚠️ 주의: 이것은 위험한 작업입니다!", model.WithVisibleWhen("danger_button")))
}

func dataSection() *model.SectionBuilder {
	static := Employees().Head(3)
	static.Static = true

	return model.NewSectionBuilder("data", "4️⃣ 데이터 표시 요소", model.Plain).
		Text("dataframe_header", model.TextSubheader, "테이블").
		Widget("employees", model.KindTable, model.WithLabel("직원 목록"), model.WithDefault(Employees())).
		Text("static_table_header", model.TextSubheader, "정적 테이블").
		Widget("employees_static", model.KindTable, model.WithLabel("직원 요약"), model.WithDefault(static))
}

func chartSection(rng *rand.Rand) *model.SectionBuilder {
	line := randomChart(rng, model.ChartLine, 20, "라인A", "라인B", "라인C")
	bar := randomChart(rng, model.ChartBar, 20, "라인A", "라인B", "라인C")
	scatter := randomChart(rng, model.ChartScatter, 100, "x축", "y축")

	return model.NewSectionBuilder("charts", "5️⃣ 차트 및 시각화", model.Plain).
		Section(model.NewSectionBuilder("charts_row", "", model.Columns(2)).
			Widget("line_chart", model.KindChart, model.WithLabel("라인 차트"), model.WithDefault(line)).
			Widget("bar_chart", model.KindChart, model.WithLabel("바 차트"), model.WithDefault(bar))).
		Widget("scatter_chart", model.KindChart, model.WithLabel("산점도"), model.WithDefault(scatter))
}

func alertSection() *model.SectionBuilder {
	return model.NewSectionBuilder("alerts", "6️⃣ 알림 및 상태 메시지", model.Columns(4)).
		Text("alert_success", model.TextSuccess, "✅ 성공").
		Text("alert_info", model.TextInfo, "ℹ️ 정보").
		Text("alert_warning", model.TextWarning, "⚠️ 경고").
		Text("alert_error", model.TextError, "❌ 에러")
}

func formSection() *model.SectionBuilder {
	submitted := "submitted." + FormID

	return model.NewSectionBuilder("forms", "7️⃣ 폼", model.Plain).
		Section(model.NewSectionBuilder(FormID, "회원가입 폼", model.Form()).
			Section(model.NewSectionBuilder("signup_names", "", model.Columns(2)).
				Widget("first_name", model.KindSingleLineInput, model.WithLabel("이름"), model.WithPlaceholder("홍")).
				Widget("last_name", model.KindSingleLineInput, model.WithLabel("성"), model.WithPlaceholder("길동"))).
			Widget("email", model.KindSingleLineInput,
				model.WithLabel("이메일"),
				model.WithPlaceholder("example@email.com"),
				model.WithHints(map[string]string{"type": "email"})).
			Widget("terms", model.KindCheckbox, model.WithLabel("이용약관에 동의합니다")).
			Widget("signup_submit", model.KindSubmitButton, model.WithLabel("가입하기")).
			Text("signup_welcome", model.TextSuccess, "환영합니다, {{ first_name }}{{ last_name }}님!",
				model.WithVisibleWhen(submitted+" && terms")).
			Text("signup_terms_warning", model.TextWarning, "이용약관에 동의해주세요",
				model.WithVisibleWhen(submitted+" && !terms")))
}

func layoutSection() *model.SectionBuilder {
	tab := func(n, title, header, body string) *model.SectionBuilder {
		return model.NewSectionBuilder("tab_"+n, title, model.Plain).
			Text("tab_"+n+"_header", model.TextHeader, header).
			Text("tab_"+n+"_text", model.TextPlain, body)
	}

	return model.NewSectionBuilder("layout", "8️⃣ 레이아웃 요소", model.Plain).
		Section(model.NewSectionBuilder("sidebar", "⚙️ 설정", model.Layout{Kind: model.SectionSidebar}).
			Text("sidebar_header", model.TextSubheader, "사이드바").
			Widget("menu", model.KindRadio, model.WithLabel("메뉴 선택"), model.WithOptions("홈", "설정", "정보", "도움말")).
			Text("menu_selected", model.TextPlain, "선택된 항목: {{ menu }}")).
		Section(model.NewSectionBuilder("tabs", "", model.Layout{Kind: model.SectionTabs}).
			Section(tab("1", "탭1", "탭 1 내용", "첫 번째 탭의 컨텐츠입니다")).
			Section(tab("2", "탭2", "탭 2 내용", "두 번째 탭의 컨텐츠입니다")).
			Section(tab("3", "탭3", "탭 3 내용", "세 번째 탭의 컨텐츠입니다"))).
		Section(model.NewSectionBuilder("expander", "더 보기", model.Layout{Kind: model.SectionExpander}).
			Text("expander_text", model.TextMarkdown, "이것은 확장/축소 가능한 섹션입니다.\n- 클릭하면 펼쳐집니다\n- 다시 클릭하면 접혀집니다\n")).
		Section(model.NewSectionBuilder("bordered", "", model.Layout{Kind: model.SectionContainer, Border: true}).
			Text("bordered_header", model.TextSubheader, "컨테이너").
			Text("bordered_text", model.TextPlain, "경계선이 있는 컨테이너입니다"))
}

func specialSection() *model.SectionBuilder {
	return model.NewSectionBuilder("special", "9️⃣ 특수 요소", model.Plain).
		Widget("progress", model.KindProgress, model.WithLabel("진행률"), model.WithDefault(100)).
		Text("progress_done", model.TextSuccess, "완료!").
		Section(model.NewSectionBuilder("metrics", "", model.Columns(3)).
			Widget("revenue", model.KindMetric, model.WithLabel("매출액"),
				model.WithDefault(model.Metric{Value: "₩1,234,567", Delta: "+12.5%"})).
			Widget("users", model.KindMetric, model.WithLabel("사용자 수"),
				model.WithDefault(model.Metric{Value: "10,234", Delta: "-5%"})).
			Widget("satisfaction", model.KindMetric, model.WithLabel("만족도"),
				model.WithDefault(model.Metric{Value: "4.8/5.0", Delta: "+0.2"})))
}

func fileSection() *model.SectionBuilder {
	return model.NewSectionBuilder("files", "🔟 파일 처리", model.Plain).
		Widget("upload", model.KindFileInput,
			model.WithLabel("파일 업로드"),
			model.WithConstraints(model.Constraints{Accept: []string{"csv", "txt", "pdf"}})).
		Text("upload_done", model.TextSuccess, "파일 '{{ upload.name }}' 이 업로드되었습니다!", model.WithVisibleWhen("upload"))
}
