package server

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ironsheep/look-tools-mcp/internal/operator"
	"github.com/ironsheep/look-tools-mcp/internal/param"
)

// ParameterInfo describes one operator parameter.
type ParameterInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name,omitempty"`
	Category    string   `json:"category"`
	Kind        string   `json:"kind"`
	Value       string   `json:"value"`
	Min         *float32 `json:"min,omitempty"`
	Max         *float32 `json:"max,omitempty"`
	Step        *float32 `json:"step,omitempty"`
	Scale       string   `json:"scale,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	PathKind    string   `json:"path_kind,omitempty"`
	Filters     string   `json:"filters,omitempty"`
}

// StageInfo describes one pipeline operator.
type StageInfo struct {
	Index       int             `json:"index"`
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Label       string          `json:"label"`
	Identity    bool            `json:"identity"`
	Description string          `json:"description,omitempty"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// OperatorTypeInfo describes a registered operator type.
type OperatorTypeInfo struct {
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// MetricSample is one series of a gathered metric. Histograms report their
// sample count and sum.
type MetricSample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
	Sum    *float64          `json:"sum,omitempty"`
}

func describeParameter(set *param.Set, p param.Parameter) ParameterInfo {
	info := ParameterInfo{
		Name:  p.Name(),
		Kind:  p.Kind().String(),
		Value: p.String(),
	}
	if d := p.DisplayName(); d != p.Name() {
		info.DisplayName = d
	}
	info.Category, _ = set.Category(p.Name())

	switch v := p.(type) {
	case *param.Slider:
		min, max, step := v.Min(), v.Max(), v.Step()
		info.Min, info.Max, info.Step = &min, &max, &step
		info.Scale = v.Scale().String()
	case *param.Select:
		info.Choices = v.Choices()
	case *param.Path:
		info.PathKind = v.PathKind().String()
		info.Filters = v.Filters()
	}
	return info
}

func describeParameters(op *operator.Operator) []ParameterInfo {
	set := op.Parameters()
	all := set.All()
	out := make([]ParameterInfo, len(all))
	for i, p := range all {
		out[i] = describeParameter(set, p)
	}
	return out
}

func describeStage(index int, op *operator.Operator) StageInfo {
	return StageInfo{
		Index:       index,
		ID:          op.ID().String(),
		Type:        op.Name(),
		Label:       op.Label(),
		Identity:    op.IsIdentity(),
		Description: op.Description(),
		Parameters:  describeParameters(op),
	}
}

// gatherMetrics flattens every series of g.
func gatherMetrics(g prometheus.Gatherer) ([]MetricSample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var out []MetricSample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			s := MetricSample{Name: mf.GetName(), Labels: labels(m)}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				s.Value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				s.Value = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				sum := h.GetSampleSum()
				s.Value, s.Sum = float64(h.GetSampleCount()), &sum
			default:
				continue
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return labelKey(out[i].Labels) < labelKey(out[j].Labels)
	})
	return out, nil
}

func labels(m *dto.Metric) map[string]string {
	if len(m.GetLabel()) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func labelKey(l map[string]string) string {
	keys := make([]string, 0, len(l))
	for k, v := range l {
		keys = append(keys, k+"="+v)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
