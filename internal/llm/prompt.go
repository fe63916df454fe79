package llm

import "strings"

// SystemPrompt frames every chatbot answer.
const SystemPrompt = `당신은 대한민국 지자체의 분리수거 안내 도우미입니다.
사용자가 물건을 올바르게 배출할 수 있도록 한국어로 간결하고 정확하게 답하세요.
재활용 가능 여부, 배출 전 처리 방법(세척, 라벨 제거, 분해 등), 배출 장소나 봉투 종류를 단계별로 안내하고,
지역마다 규정이 다를 수 있는 경우 그 사실을 알려주세요.`

// ImageAnalysisPrompt accompanies a photo sent to /chatbot-analyze-image.
const ImageAnalysisPrompt = `사진 속 물건이 무엇인지 먼저 한 줄로 알려주고, 그 물건의 분리수거 방법을 안내해 주세요.
형식:
물건: <이름>
분류: <재활용품 종류 또는 일반/대형/특수 폐기물>
배출 방법:
1. ...
2. ...
주의사항: ...`

type ChatPromptInput struct {
	Message       string
	Location      string
	Schedule      string
	SearchContext string
	HasImage      bool
}

// BuildChatPrompt assembles the user turn for the unified chat endpoint.
// Empty sections are left out.
func BuildChatPrompt(in ChatPromptInput) string {
	var sb strings.Builder

	if in.Location != "" {
		sb.WriteString("사용자 위치: ")
		sb.WriteString(in.Location)
		sb.WriteString("\n\n")
	}
	if in.Schedule != "" {
		sb.WriteString("해당 지역 배출 정보:\n")
		sb.WriteString(in.Schedule)
		sb.WriteString("\n\n")
	}
	if in.SearchContext != "" {
		sb.WriteString("다음 검색 결과를 참고하여 답변하세요. 검색 결과와 질문이 관련 없으면 무시하세요.\n")
		sb.WriteString("<검색결과>\n")
		sb.WriteString(in.SearchContext)
		sb.WriteString("</검색결과>\n\n")
	}
	if in.HasImage {
		sb.WriteString("첨부된 사진 속 물건을 기준으로 답하세요.\n")
	}

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		msg = "이 물건은 어떻게 버려야 하나요?"
	}
	sb.WriteString("질문: ")
	sb.WriteString(msg)
	return sb.String()
}
