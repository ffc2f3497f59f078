// Package infer wraps an ONNX Runtime token-classification model behind a
// small scoring surface: pre-tokenized words in, one row of logits per
// word out.
package infer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Config describes the files and limits for one session.
type Config struct {
	OrtDLL        string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

// Session owns one loaded ONNX model and its subword tokenizer. Score is
// not safe for concurrent use; callers serialize access.
type Session struct {
	tk     *tokenizer.Tokenizer
	sess   *ort.DynamicAdvancedSession
	maxSeq int
}

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// The ONNX Runtime environment is process-wide; initialize it once and
// leave it up for the remaining sessions.
func initRuntime(dll string) error {
	ortInitOnce.Do(func() {
		if dll != "" {
			ort.SetSharedLibraryPath(dll)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// Init loads the tokenizer and model. It must be called exactly once
// before Score.
func (s *Session) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}
	if err := initRuntime(cfg.OrtDLL); err != nil {
		return fmt.Errorf("init onnxruntime: %w", err)
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	sess, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{"input_ids", "attention_mask"}, []string{"logits"}, nil)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	s.tk = tk
	s.sess = sess
	s.maxSeq = cfg.MaxSeqLen
	return nil
}

// Close releases the model session. Safe to call more than once.
func (s *Session) Close() {
	if s.sess != nil {
		s.sess.Destroy()
		s.sess = nil
	}
	s.tk = nil
}

// Score runs the model over one sentence of pre-tokenized words and
// returns one logit row per word, taken from the first subword of each
// word. The width of every row is the model's output dimension.
func (s *Session) Score(words []string) ([][]float32, error) {
	if s.sess == nil || s.tk == nil {
		return nil, errors.New("session is not initialized")
	}
	ids, starts, err := s.encodeWords(words)
	if err != nil {
		return nil, err
	}

	seqLen := len(ids)
	inputIds := make([]int64, seqLen)
	mask := make([]int64, seqLen)
	for i, id := range ids {
		inputIds[i] = int64(id)
		mask[i] = 1
	}
	shape := ort.NewShape(1, int64(seqLen))
	idsTensor, err := ort.NewTensor(shape, inputIds)
	if err != nil {
		return nil, fmt.Errorf("input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := s.sess.Run([]ort.Value{idsTensor, maskTensor}, outputs); err != nil {
		return nil, fmt.Errorf("run model: %w", err)
	}
	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}
	defer logits.Destroy()

	outShape := logits.GetShape()
	if len(outShape) != 3 {
		return nil, fmt.Errorf("unexpected logits shape %v", outShape)
	}
	width := int(outShape[2])
	data := logits.GetData()
	if len(data) < seqLen*width {
		return nil, fmt.Errorf("logits too short: %d for %d positions", len(data), seqLen)
	}

	rows := make([][]float32, len(words))
	for i, start := range starts {
		row := make([]float32, width)
		copy(row, data[start*width:(start+1)*width])
		rows[i] = row
	}
	return rows, nil
}

// encodeWords tokenizes each word separately so the first-subword position
// of every word is known exactly. Returns the flat subword id sequence and
// the starting position of each word within it.
func (s *Session) encodeWords(words []string) (ids []int, starts []int, err error) {
	starts = make([]int, 0, len(words))
	for _, word := range words {
		enc, err := s.tk.EncodeSingle(word, false)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %q: %w", word, err)
		}
		if len(enc.Ids) == 0 {
			return nil, nil, fmt.Errorf("word %q produced no subwords", word)
		}
		starts = append(starts, len(ids))
		ids = append(ids, enc.Ids...)
	}
	if len(ids) > s.maxSeq {
		return nil, nil, fmt.Errorf("sentence needs %d subword positions, limit is %d", len(ids), s.maxSeq)
	}
	return ids, starts, nil
}
