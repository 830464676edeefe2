// Package report encodes simulation results as protocol buffer Structs, for
// printing as JSON or text and for streaming as length-prefixed frames.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/alan-christopher/teleport/teleport"
)

// Exact encodes the result of an exact run whose input state was psi.
func Exact(res teleport.ExactResult, psi []complex128) (*structpb.Struct, error) {
	f, err := res.ReceiverFidelity(psi)
	if err != nil {
		return nil, err
	}
	var probs []interface{}
	for _, p := range res.Probabilities() {
		probs = append(probs, p)
	}
	return structpb.NewStruct(map[string]interface{}{
		"run":           res.RunID,
		"mode":          teleport.ModeExact.String(),
		"input":         pairs(psi),
		"amplitudes":    pairs(res.Amplitudes),
		"probabilities": probs,
		"fidelity":      f,
		"teleported":    f > 1-teleport.FidelityTolerance,
	})
}

// Sampled encodes the result of a sampled run.
func Sampled(res teleport.SampleResult) (*structpb.Struct, error) {
	failures, err := res.VerifyFailures()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]interface{}, len(res.Counts))
	for k, v := range res.Counts {
		counts[k] = v
	}
	marginals := make(map[string]interface{})
	for _, c := range []teleport.Cond{teleport.ZCondition, teleport.XCondition} {
		zeros, ones, err := res.Marginal(c)
		if err != nil {
			return nil, err
		}
		marginals[c.String()] = []interface{}{zeros, ones}
	}
	return structpb.NewStruct(map[string]interface{}{
		"run":             res.RunID,
		"mode":            teleport.ModeSampled.String(),
		"shots":           res.Shots,
		"counts":          counts,
		"marginals":       marginals,
		"verify_failures": failures,
	})
}

// pairs writes each complex number as a [re, im] list.
func pairs(z []complex128) []interface{} {
	r := make([]interface{}, 0, len(z))
	for _, a := range z {
		r = append(r, []interface{}{real(a), imag(a)})
	}
	return r
}

// JSON renders s as indented JSON. The exact whitespace is not stable across
// protobuf releases; parse the output rather than comparing it byte for byte.
func JSON(s *structpb.Struct) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}

// Text writes s as one "key: value" line per field, sorted by key. Nested
// structs are indented beneath their key.
func Text(w io.Writer, s *structpb.Struct) error {
	return writeFields(w, s, "")
}

func writeFields(w io.Writer, s *structpb.Struct, indent string) error {
	keys := make([]string, 0, len(s.GetFields()))
	for k := range s.GetFields() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := s.GetFields()[k]
		if sub := v.GetStructValue(); sub != nil {
			if _, err := fmt.Fprintf(w, "%s%s:\n", indent, k); err != nil {
				return err
			}
			if err := writeFields(w, sub, indent+"  "); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s%s: %s\n", indent, k, scalar(v)); err != nil {
			return err
		}
	}
	return nil
}

func scalar(v *structpb.Value) string {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return "null"
	case *structpb.Value_BoolValue:
		return fmt.Sprint(k.BoolValue)
	case *structpb.Value_NumberValue:
		return fmt.Sprintf("%.6g", k.NumberValue)
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_ListValue:
		var els []string
		for _, e := range k.ListValue.GetValues() {
			els = append(els, scalar(e))
		}
		return "[" + strings.Join(els, " ") + "]"
	case *structpb.Value_StructValue:
		return k.StructValue.String()
	}
	return ""
}
