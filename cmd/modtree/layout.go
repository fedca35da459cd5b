package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-modtree/eval"
	"github.com/cwbudde/algo-modtree/host"
	"github.com/cwbudde/algo-modtree/modulator"
	"github.com/cwbudde/algo-modtree/param"
)

// layoutFile describes the shape of one or more parameter trees. It holds
// structure and initial values only; modulated state is never written back.
type layoutFile struct {
	Trees []treeSpec `yaml:"trees"`
}

type treeSpec struct {
	Name      string       `yaml:"name"`
	Clamp     bool         `yaml:"clamp"`
	Snapshots bool         `yaml:"snapshots"`
	Baseline  baselineSpec `yaml:"baseline"`
	Root      nodeSpec     `yaml:"root"`
}

type nodeSpec struct {
	Name      string        `yaml:"name"`
	Min       *float64      `yaml:"min"`
	Max       *float64      `yaml:"max"`
	Original  *float64      `yaml:"original"`
	Modulator modulatorSpec `yaml:"modulator"`
	Baseline  *baselineSpec `yaml:"baseline"`
	Children  []nodeSpec    `yaml:"children"`
}

type baselineSpec struct {
	Mode   string  `yaml:"mode"`
	Amount float64 `yaml:"amount"`
}

type modulatorSpec struct {
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params"`
}

type offsetParams struct {
	Delta float64 `mapstructure:"delta"`
}

type scaleParams struct {
	Factor float64 `mapstructure:"factor"`
}

type setParams struct {
	Value float64 `mapstructure:"value"`
}

type spectralParams struct {
	Window   int      `mapstructure:"window"`
	Fallback string   `mapstructure:"fallback"`
	Value    *float64 `mapstructure:"value"`
}

var errNoTrees = errors.New("layout defines no trees")

func loadLayoutFile(path string) (*layoutFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeLayout(f)
}

func decodeLayout(r io.Reader) (*layoutFile, error) {
	var lf layoutFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&lf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errNoTrees
		}
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	if len(lf.Trees) == 0 {
		return nil, errNoTrees
	}

	return &lf, nil
}

// buildBank constructs every tree of the layout and registers it with a
// new bank.
func buildBank(lf *layoutFile, opts ...host.Option) (*host.Bank[float64], *spectralCounter, error) {
	bank := host.NewBank[float64](opts...)
	counter := &spectralCounter{}

	for i, ts := range lf.Trees {
		if ts.Name == "" {
			ts.Name = fmt.Sprintf("tree%d", i)
		}

		root, err := buildTree(ts, counter)
		if err != nil {
			return nil, nil, fmt.Errorf("tree %s: %w", ts.Name, err)
		}

		if err := bank.Add(ts.Name, root); err != nil {
			return nil, nil, err
		}
	}

	return bank, counter, nil
}

func buildTree(ts treeSpec, counter *spectralCounter) (*param.Node[float64], error) {
	b, err := param.ParseBaseline(ts.Baseline.Mode, ts.Baseline.Amount)
	if err != nil {
		return nil, err
	}

	opts := []param.Option{param.WithBaseline(b)}
	if ts.Clamp {
		opts = append(opts, param.WithClamp(param.ClampToBounds))
	}
	if ts.Snapshots {
		opts = append(opts, param.WithSnapshots())
	}

	if ts.Root.Min == nil || ts.Root.Max == nil {
		return nil, fmt.Errorf("root %q needs min and max", ts.Root.Name)
	}

	env, err := envelopeFor(ts.Root, param.Envelope[float64]{})
	if err != nil {
		return nil, fmt.Errorf("root %q: %w", ts.Root.Name, err)
	}

	mod, err := buildModulator(ts.Root.Modulator, counter)
	if err != nil {
		return nil, fmt.Errorf("root %q: %w", ts.Root.Name, err)
	}

	root := param.NewRootWith(env, mod, opts...).Named(ts.Root.Name)

	for _, cs := range ts.Root.Children {
		if err := addChild(root, cs, counter); err != nil {
			return nil, err
		}
	}

	return root, nil
}

func addChild(parent *param.Node[float64], ns nodeSpec, counter *spectralCounter) error {
	env, err := envelopeFor(ns, parent.Value())
	if err != nil {
		return fmt.Errorf("node %q: %w", ns.Name, err)
	}

	mod, err := buildModulator(ns.Modulator, counter)
	if err != nil {
		return fmt.Errorf("node %q: %w", ns.Name, err)
	}

	b := parent.Config().Baseline
	if ns.Baseline != nil {
		b, err = param.ParseBaseline(ns.Baseline.Mode, ns.Baseline.Amount)
		if err != nil {
			return fmt.Errorf("node %q: %w", ns.Name, err)
		}
	}

	child := parent.ModulateWithBaseline(env, mod, b).Named(ns.Name)

	for _, cs := range ns.Children {
		if err := addChild(child, cs, counter); err != nil {
			return err
		}
	}

	return nil
}

// envelopeFor fills missing fields from inherit, the parent's envelope.
func envelopeFor(ns nodeSpec, inherit param.Envelope[float64]) (param.Envelope[float64], error) {
	lo, hi := inherit.Min, inherit.Max
	if ns.Min != nil {
		lo = *ns.Min
	}
	if ns.Max != nil {
		hi = *ns.Max
	}

	orig := lo
	if ns.Original != nil {
		orig = *ns.Original
	} else if ns.Min == nil && ns.Max == nil {
		orig = inherit.Original
	}

	return param.NewEnvelope(lo, hi, orig)
}

func buildModulator(ms modulatorSpec, counter *spectralCounter) (param.Modulator[float64], error) {
	switch ms.Kind {
	case "", "identity":
		return param.Identity[float64](), nil
	case "offset":
		var p offsetParams
		if err := decodeParams(ms.Params, &p); err != nil {
			return nil, err
		}
		return modulator.Offset(p.Delta), nil
	case "scale":
		p := scaleParams{Factor: 1}
		if err := decodeParams(ms.Params, &p); err != nil {
			return nil, err
		}
		return modulator.Scale[float64](p.Factor), nil
	case "set":
		var p setParams
		if err := decodeParams(ms.Params, &p); err != nil {
			return nil, err
		}
		return modulator.Set(p.Value), nil
	case "centroid":
		return buildSpectral(ms.Params, eval.Centroid{}, counter)
	case "peak":
		return buildSpectral(ms.Params, eval.Peak{}, counter)
	default:
		return nil, fmt.Errorf("unknown modulator kind %q", ms.Kind)
	}
}

func buildSpectral(raw map[string]any, ev eval.Evaluator, counter *spectralCounter) (param.Modulator[float64], error) {
	p := spectralParams{Window: 64}
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}

	if !eval.IsPowerOfTwo(p.Window) || p.Window < 2 {
		return nil, fmt.Errorf("%w: window %d", eval.ErrSizeNotPowerOfTwo, p.Window)
	}

	opts := []modulator.EvaluatedOption{
		modulator.WithNormalizedOutput(),
		modulator.WithErrorHandler(counter.record),
	}

	switch p.Fallback {
	case "", "hold":
	case "original":
		opts = append(opts, modulator.WithFallback(modulator.FallbackOriginal))
	case "value":
		if p.Value == nil {
			return nil, errors.New("fallback \"value\" needs a value")
		}
		opts = append(opts, modulator.WithFallbackValue(*p.Value))
	default:
		return nil, fmt.Errorf("unknown fallback %q", p.Fallback)
	}

	return modulator.NewEvaluated(ev, modulator.History[float64](p.Window), opts...)
}

func decodeParams(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid modulator params: %w", err)
	}

	return nil
}
