package gemini

import "text/template"

const systemInstruction = `You are a sell-side equity analyst covering companies listed on the Shanghai and Shenzhen exchanges.
Write balanced, factual analysis. Never promise returns. Answer only with JSON.`

const defaultPrompt = `Write an analysis report for {{.Name}} (stock code {{.Code}}).

Cover recent price trend, valuation, fundamentals and sector context.
Respond with a single JSON object of this shape:
{
  "title": "short report title",
  "summary": "two or three sentence overview",
  "rating": "one of: buy, hold, sell",
  "sections": [{"heading": "section title", "body": "one or two paragraphs"}],
  "risks": ["key risk", "..."]
}`

var promptTemplate = template.Must(template.New("stock_analysis").Parse(defaultPrompt))
