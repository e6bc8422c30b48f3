package prompt

// Template names. Nodes address templates by these constants only.
const (
	RouterClassify   = "router_classify"
	ContentClassify  = "content_classify"
	GradeChunk       = "grade_chunk"
	GenerateChitchat = "generate_chitchat"
	GenerateQA       = "generate_qa"
	GenerateLinkedIn = "generate_linkedin"
	QueryAnalysis    = "query_analysis"
	SubjectExtract   = "subject_extract"
	RankResults      = "rank_results"
)

var builtinTemplates = map[string]string{
	RouterClassify: `<role>
You are the intent router of a video knowledge assistant. Users talk to an
assistant that has ingested YouTube video transcripts.
</role>

<instructions>
Classify the user's message into exactly one intent:
- "system": the user wants to manage their video library (load a video from a
  URL, list their videos, find a specific video by title or topic).
- "linkedin": the user asks for a LinkedIn post to be written.
- "content": everything else (questions about video content, follow-ups,
  greetings, small talk).
Respond with JSON only, no prose around it.
</instructions>

<conversation_history>
{{.History}}
</conversation_history>

<user_message>
{{.Query}}
</user_message>

<output_format>
{"intent": "system|linkedin|content", "confidence": 0.0, "reasoning": "one sentence"}
</output_format>`,

	ContentClassify: `<role>
You decide how a video knowledge assistant should answer a message that has
already been matched against the user's transcript library.
</role>

<instructions>
Classify the message into exactly one intent:
- "qa": the user asks something that should be answered from transcript
  content (a question, a summary request, a follow-up about a video).
- "chitchat": greetings, thanks, small talk, anything that needs no
  transcript context.
Respond with JSON only.
</instructions>

<conversation_history>
{{.History}}
</conversation_history>

<user_message>
{{.Query}}
</user_message>

<output_format>
{"intent": "qa|chitchat", "confidence": 0.0, "reasoning": "one sentence"}
</output_format>`,

	GradeChunk: `<role>
You grade whether a transcript fragment is relevant to a user's question.
</role>

<instructions>
Judge strictly: the fragment is relevant only if it contains information that
helps answer the question. Topical overlap alone is not enough.
Respond with JSON only.
</instructions>

<question>
{{.Query}}
</question>

<fragment>
{{.Chunk}}
</fragment>

<output_format>
{"is_relevant": true, "reasoning": "one sentence"}
</output_format>`,

	GenerateChitchat: `<role>
You are a friendly assistant for a video knowledge service. The user can load
YouTube videos and ask questions about their content.
</role>

<instructions>
Reply conversationally and briefly. If it fits naturally, remind the user
they can ask about their loaded videos. Format the reply as simple HTML
(<p>, <b>, <i> only).
</instructions>`,

	GenerateQA: `<role>
You answer questions strictly from the transcript excerpts provided.
</role>

<instructions>
Answer the question using only the excerpts. If the excerpts do not contain
the answer, say so plainly instead of guessing. Be specific and cite what the
speaker actually said. Format the answer as HTML: short paragraphs in <p>,
emphasis with <b>, lists with <ul><li> where they help.
</instructions>

<transcript_excerpts>
{{.Context}}
</transcript_excerpts>

<conversation_history>
{{.History}}
</conversation_history>

<question>
{{.Query}}
</question>`,

	GenerateLinkedIn: `<role>
You write LinkedIn posts grounded in video transcript material.
</role>

<instructions>
Write an engaging LinkedIn post about the topic below. Use the transcript
excerpts as source material when they are provided; otherwise write from
general knowledge of the topic. Hook in the first line, short paragraphs,
a handful of relevant hashtags at the end. Format as HTML paragraphs (<p>).
</instructions>

<topic>
{{.Topic}}
</topic>

<transcript_excerpts>
{{.Context}}
</transcript_excerpts>`,

	QueryAnalysis: `<role>
You analyze a search query against a personal library of YouTube transcripts.
</role>

<instructions>
Extract search signals from the user's message:
- title_keywords: words likely to appear in a video title.
- topic_keywords: words describing the subject matter.
- alternative_phrasings: up to three rewordings of the query.
- query_intent: "specific_video" (the user means one particular video),
  "topic_search" (the user wants videos about a subject), or
  "general_question".
Respond with JSON only.
</instructions>

<user_message>
{{.Query}}
</user_message>

<output_format>
{"title_keywords": [], "topic_keywords": [], "alternative_phrasings": [], "query_intent": "topic_search", "confidence": 0.0, "reasoning": "one sentence"}
</output_format>`,

	SubjectExtract: `<role>
You extract the subject a user wants to find videos about.
</role>

<instructions>
Reduce the message to the bare subject being searched for, dropping command
phrasing ("find", "show me", "do I have videos about"). Respond with JSON
only.
</instructions>

<user_message>
{{.Query}}
</user_message>

<output_format>
{"subject": "the subject", "confidence": 0.0, "reasoning": "one sentence"}
</output_format>`,

	RankResults: `<role>
You rank candidate videos by how well they match what the user is looking
for.
</role>

<instructions>
Re-rank every candidate below. Score each from 0.0 (irrelevant) to 1.0
(exactly what the user wants), judging by title and subject match. Keep the
video_id values exactly as given. Respond with JSON only.
</instructions>

<user_message>
{{.Query}}
</user_message>

<search_subject>
{{.Subject}}
</search_subject>

<candidates>
{{.Candidates}}
</candidates>

<output_format>
{"rankings": [{"video_id": "id", "relevance_score": 0.0, "reasoning": "one sentence", "key_matches": []}]}
</output_format>`,
}
