package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/rdfcore/pkg/datatypes"
	"github.com/aleksaelezovic/rdfcore/pkg/rdf"
	"github.com/aleksaelezovic/rdfcore/pkg/store"
)

func literalCmd(a *app) *cobra.Command {
	var datatype, lang string

	cmd := &cobra.Command{
		Use:   "literal <lexical>",
		Short: "Parse and intern a literal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				l   rdf.Literal
				err error
			)
			if lang != "" {
				l, err = rdf.NewLangLiteralIn(a.storage, args[0], lang)
			} else {
				l, err = rdf.NewLiteralIn(a.storage, args[0], datatype)
			}
			if err != nil {
				return err
			}
			printLiteral(cmd.OutOrStdout(), l)
			return nil
		},
	}
	cmd.Flags().StringVarP(&datatype, "datatype", "d", rdf.XSDString, "Datatype IRI")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language tag")
	return cmd
}

func printLiteral(w io.Writer, l rdf.Literal) {
	h := l.Handle()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "term\t%s\n", l)
	fmt.Fprintf(tw, "canonical\t%s\n", l.Lexical())
	fmt.Fprintf(tw, "datatype\t%s\n", l.Datatype())
	fmt.Fprintf(tw, "tag\t%d\n", h.NodeID().LiteralType())
	fmt.Fprintf(tw, "inlined\t%t\n", l.IsInlined())
	fmt.Fprintf(tw, "handle\t%#016x\n", uint64(h.ID()))
	fmt.Fprintf(tw, "storage\t%d\n", h.Storage())
	_ = tw.Flush()
}

func compareCmd(a *app) *cobra.Command {
	var datatype, datatypeB string

	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare two literals by value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if datatypeB == "" {
				datatypeB = datatype
			}
			x, err := rdf.NewLiteralIn(a.storage, args[0], datatype)
			if err != nil {
				return err
			}
			y, err := rdf.NewLiteralIn(a.storage, args[1], datatypeB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", x, x.Compare(y), y)
			return nil
		},
	}
	cmd.Flags().StringVarP(&datatype, "datatype", "d", rdf.XSDInteger, "Datatype IRI of both operands")
	cmd.Flags().StringVar(&datatypeB, "datatype-b", "", "Datatype IRI of the second operand")
	return cmd
}

func evalCmd(a *app) *cobra.Command {
	var datatype, datatypeB string

	cmd := &cobra.Command{
		Use:   "eval <a> <op> <b>",
		Short: "Evaluate an arithmetic expression (op is one of + - * /)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if datatypeB == "" {
				datatypeB = datatype
			}
			x, err := rdf.NewLiteralIn(a.storage, args[0], datatype)
			if err != nil {
				return err
			}
			y, err := rdf.NewLiteralIn(a.storage, args[2], datatypeB)
			if err != nil {
				return err
			}

			var result rdf.Literal
			switch args[1] {
			case "+":
				result, err = x.Add(y)
			case "-":
				result, err = x.Sub(y)
			case "*", "x":
				result, err = x.Mul(y)
			case "/":
				result, err = x.Div(y)
			default:
				return fmt.Errorf("unknown operator %q", args[1])
			}
			if err != nil {
				return err
			}
			printLiteral(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&datatype, "datatype", "d", rdf.XSDInteger, "Datatype IRI of both operands")
	cmd.Flags().StringVar(&datatypeB, "datatype-b", "", "Datatype IRI of the second operand")
	return cmd
}

func datatypesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "datatypes",
		Short: "List the fixed datatypes and their capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAG\tDATATYPE\tCAPABILITIES\tSUPERTYPE")
			for _, d := range datatypes.FixedDescriptors() {
				super := "-"
				if s := d.Supertype(); s != nil {
					super = s.IRI()
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.Tag(), d.IRI(), capabilities(d), super)
			}
			for _, iri := range datatypes.Registered() {
				fmt.Fprintf(tw, "-\t%s\t%s\t-\n", iri, capabilities(datatypes.Lookup(iri)))
			}
			return tw.Flush()
		},
	}
}

func capabilities(d *datatypes.Descriptor) string {
	var caps []string
	if d.IsOrderable() {
		caps = append(caps, "ordered")
	}
	if d.IsNumeric() {
		caps = append(caps, "numeric")
	}
	if d.CanInline() {
		caps = append(caps, "inline")
	}
	if d.SpecializedStorage() {
		caps = append(caps, "specialized")
	}
	if len(caps) == 0 {
		return "-"
	}
	return strings.Join(caps, ",")
}

func demoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Intern sample terms and print storage statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s := a.storage

			terms, err := demoTerms(s)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TERM\tHANDLE")
			for _, t := range terms {
				fmt.Fprintf(tw, "%s\t%s\n", t, t.Handle())
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			printStats(out, s.Stats())

			if a.cfg.Metrics.Enabled {
				fmt.Fprintln(out)
				return printMetrics(out, store.NewCollector(a.cfg.Metrics.Namespace, s))
			}
			return nil
		},
	}
}

func demoTerms(s *store.NodeStorage) ([]rdf.Term, error) {
	var terms []rdf.Term
	add := func(t rdf.Term, err error) error {
		if err != nil {
			return err
		}
		terms = append(terms, t)
		return nil
	}

	steps := []func() error{
		func() error { return add(rdf.NewIRIIn(s, "http://example.org/alice")) },
		func() error { return add(rdf.NewIRIIn(s, "http://xmlns.com/foaf/0.1/knows")) },
		func() error { return add(rdf.NewBlankNodeIn(s, "b0")) },
		func() error { return add(rdf.NewVariableIn(s, "person", false)) },
		func() error { return add(rdf.NewLiteralIn(s, "Alice", rdf.XSDString)) },
		func() error { return add(rdf.NewLangLiteralIn(s, "Alice", "en")) },
		func() error { return add(rdf.NewLiteralIn(s, "30", rdf.XSDInteger)) },
		func() error { return add(rdf.NewLiteralIn(s, "87960930222089", rdf.XSDInteger)) },
		func() error { return add(rdf.NewLiteralIn(s, "3.14", rdf.XSDDecimal)) },
		func() error { return add(rdf.NewLiteralIn(s, "0.1", rdf.XSDDouble)) },
		func() error { return add(rdf.NewLiteralIn(s, "2024-02-29T12:00:00Z", rdf.XSDDateTime)) },
		func() error { return add(rdf.NewLiteralIn(s, "P1Y2M", rdf.XSDYearMonthDuration)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return terms, nil
}

func printStats(w io.Writer, st store.Stats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BACKEND\tENTRIES")
	for _, b := range store.Backends() {
		fmt.Fprintf(tw, "%s\t%d\n", b, st.Entries[b])
	}

	names := make([]string, 0, len(st.Specialized))
	for iri, n := range st.Specialized {
		if n > 0 {
			names = append(names, iri)
		}
	}
	sort.Strings(names)
	for _, iri := range names {
		fmt.Fprintf(tw, "  %s\t%d\n", iri, st.Specialized[iri])
	}
	fmt.Fprintf(tw, "inlined literals\t%d\n", st.Inlined)
	fmt.Fprintf(tw, "rejected literals\t%d\n", st.Rejected)
	_ = tw.Flush()
}

func printMetrics(w io.Writer, c prometheus.Collector) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
