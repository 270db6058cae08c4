// Package briefing answers natural-language questions about technology
// product updates.
//
// A Service owns the local update dataset and a four-stage pipeline:
// interpretation of the question, retrieval from the local dataset and
// optional external sources, ranking, and a quality evaluation that may
// rewrite the question and retry once. Every request returns a reasoning
// trace alongside the ranked updates.
//
//	svc, err := briefing.NewService("./data",
//	    briefing.WithAIConfig(ai.NewConfig(ai.WithToken(os.Getenv("OPENAI_API_KEY")))),
//	)
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//
//	result, err := svc.Search(ctx, pipeline.Request{Query: "Teams breaking changes", Locale: "en"})
//
// Without credentials the service runs entirely on rules: interpretation is
// rule-based, no rewrite is attempted and summaries are templated.
package briefing
