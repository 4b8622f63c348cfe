// Package tripfinder embeds the tripfinder search pipeline in a Go program.
//
// The client runs the same pipeline as the HTTP service: input validation,
// response cache, keyword shortcut, LLM generation with a deadline, schema
// validation and budget re-filtering. State lives in memory unless a Redis
// or Valkey address is configured.
//
//	client, err := tripfinder.New(ctx,
//	    tripfinder.WithOpenAI("", "gpt-4o-mini", "OPENAI_API_KEY"),
//	    tripfinder.WithTimeout(10*time.Second),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	res, err := client.Search(ctx, "quiet beach under $100")
//	for _, m := range res.Matches {
//	    fmt.Println(m.ID, m.Reason)
//	}
package tripfinder
