//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"clinicbot/config"
	"clinicbot/internal/adapter/analyzer"
	"clinicbot/internal/adapter/chunker"
	"clinicbot/internal/adapter/embedding"
	"clinicbot/internal/adapter/memstore"
	"clinicbot/internal/adapter/retriever"
	"clinicbot/internal/adapter/vectorindex"
	"clinicbot/internal/domain"
	"clinicbot/internal/intent"
	"clinicbot/internal/port"
	"clinicbot/internal/usecase"
)

var (
	cfg                      = config.DefaultConfig()
	embedder   port.Embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimension, cfg.Embedding.Stemming)
	chk                      = chunker.NewParagraphChunker(cfg.Corpus.ChunkTokens, analyzer.NewTokenizer(cfg.Embedding.Stemming))
	paragraphs []string
	files      []string
	appts      = memstore.NewAppointmentStore()
	ret        *retriever.SemanticRetriever
	assistant  *usecase.Assistant
	session    *usecase.Session
)

func main() {
	c := make(chan struct{})

	if err := rebuild(nil); err != nil {
		panic(err)
	}

	js.Global().Set("clinicLoad", js.FuncOf(loadContent))
	js.Global().Set("clinicChat", js.FuncOf(chat))
	js.Global().Set("clinicRetrieve", js.FuncOf(retrieveContent))
	js.Global().Set("clinicReset", js.FuncOf(reset))
	js.Global().Set("clinicStats", js.FuncOf(getStats))

	<-c
}

// rebuild embeds texts and replaces the retriever and assistant.
// Nothing changes when it fails. The current conversation and appointments
// survive.
func rebuild(texts []string) error {
	vectors, err := embedder.Embed(texts)
	if err != nil {
		return err
	}
	corpus, err := domain.NewCorpus(texts, vectors, domain.CorpusMeta{
		Provider:  "hash",
		Model:     embedder.ModelName(),
		Dimension: embedder.Dimension(),
		Metric:    cfg.Corpus.Metric,
	})
	if err != nil {
		return err
	}
	index, err := vectorindex.FromCorpus(corpus)
	if err != nil {
		return err
	}
	r, err := retriever.NewSemanticRetriever(index, embedder, corpus,
		retriever.WithMaxQueryLength(cfg.Retrieve.MaxQueryLength))
	if err != nil {
		return err
	}

	ret = r
	assistant = usecase.NewAssistant(intent.NewRouter(ret, cfg.Retrieve.TopK, nil), appts)
	if session == nil {
		session = assistant.NewSession()
	}
	return nil
}

func loadContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: clinicLoad(filename, content)")
	}

	filename := args[0].String()
	chunks, err := chk.Chunk(domain.SourceText{Path: filename, Content: args[1].String()})
	if err != nil {
		return makeError("chunking failed: " + err.Error())
	}

	next := append(append([]string(nil), paragraphs...), chunks...)
	if err := rebuild(next); err != nil {
		return makeError("indexing failed: " + err.Error())
	}
	paragraphs = next
	files = append(files, filename)

	return makeResult(map[string]interface{}{
		"success":    true,
		"paragraphs": len(chunks),
		"filename":   filename,
	})
}

func chat(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: clinicChat(text)")
	}

	// a fresh session picks up the latest corpus
	if !session.Booking() {
		session = assistant.NewSession()
	}
	response, err := session.Respond(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}

	return makeResult(map[string]interface{}{
		"response": response,
		"booking":  session.Booking(),
	})
}

func retrieveContent(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: clinicRetrieve(query, [topK])")
	}

	query := args[0].String()
	topK := cfg.Retrieve.TopK
	if len(args) > 1 {
		topK = args[1].Int()
	}

	results, err := ret.Retrieve(query, topK)
	if err != nil {
		return makeError("search failed: " + err.Error())
	}

	output := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		output = append(output, map[string]interface{}{
			"position": r.Paragraph.Position,
			"score":    r.Score,
			"text":     r.Paragraph.Content,
		})
	}

	return makeResult(map[string]interface{}{
		"results": output,
		"query":   query,
	})
}

func reset(this js.Value, args []js.Value) interface{} {
	prev := session
	session = nil
	if err := rebuild(nil); err != nil {
		session = prev
		return makeError(err.Error())
	}
	paragraphs = nil
	files = nil
	return makeResult(map[string]interface{}{
		"success": true,
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"paragraphs":   len(paragraphs),
		"files":        files,
		"appointments": appts.Count(),
		"dimension":    embedder.Dimension(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
