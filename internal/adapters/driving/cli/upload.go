package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codelime/codelime-cli/internal/codebook"
	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/core/services"
	"github.com/codelime/codelime-cli/internal/logger"
)

var (
	uploadFile      string
	uploadSheet     int
	uploadTextCols  []string
	uploadQuestions []string
	uploadLangCol   string
	uploadRevCol    string
	uploadCodeCols  []string
	uploadCodesSub  string
	uploadFormat    string

	uploadCodebookFile  string
	uploadCodebookSheet int
	uploadLabelCol      string
	uploadCategoryCol   string
	uploadIDCol         string

	uploadProjectID int
	uploadName      string
	uploadLanguage  string
	uploadTranslate bool
	uploadEngine    string
	uploadAuxCols   []string

	uploadBatchSize int
	uploadDryRun    bool
	uploadAsync     bool
	uploadTraining  bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a survey export as a new or existing project",
	Long: `Reads a tabular survey export, normalises it into rows and answers,
and uploads it in batches.

Without --project a new project is created from --name and --language.
With --project the rows are appended to the existing project.

Pre-existing code assignments can be read from the input via
--codes-format:
  binary-vendor   one column per code with vendor "id|label|category" headers
  binary-generic  one column per code, truthy cell means assigned
  list-vendor     columns holding code ids, vendor annotation columns present
  list-generic    columns holding code ids

The list formats and binary-generic with custom ids need a codebook
file (--codebook) mapping labels and categories to ids.`,
	RunE: runUpload,
}

func init() {
	f := uploadCmd.Flags()
	f.StringVarP(&uploadFile, "file", "f", "", "input file (.csv, .xlsx, .json, .jsonl)")
	f.IntVar(&uploadSheet, "sheet", 0, "zero-based sheet index for workbook inputs")
	f.StringSliceVarP(&uploadTextCols, "text-col", "t", nil, "column holding answer text (repeatable for multiple questions)")
	f.StringSliceVarP(&uploadQuestions, "question", "q", nil, "question name per text column (defaults to the column name)")
	f.StringVar(&uploadLangCol, "sourcelang-col", "", "column holding the per-row source language")
	f.StringVar(&uploadRevCol, "reviewed-col", "", "column marking answers as reviewed")
	f.StringSliceVar(&uploadCodeCols, "codes-col", nil, "columns holding code assignments (repeatable)")
	f.StringVar(&uploadCodesSub, "codes-substring", "", "select code columns by header substring")
	f.StringVar(&uploadFormat, "codes-format", "", "code column format: binary-vendor, binary-generic, list-vendor, list-generic")

	f.StringVar(&uploadCodebookFile, "codebook", "", "codebook file mapping code ids to labels and categories")
	f.IntVar(&uploadCodebookSheet, "codebook-sheet", 0, "sheet index within the codebook file")
	f.StringVar(&uploadLabelCol, "codebook-label-col", "", "codebook column holding code labels")
	f.StringVar(&uploadCategoryCol, "codebook-category-col", "", "codebook column holding code categories")
	f.StringVar(&uploadIDCol, "codebook-id-col", "", "codebook column holding code ids")

	f.IntVarP(&uploadProjectID, "project", "p", 0, "append to this existing project instead of creating one")
	f.StringVarP(&uploadName, "name", "n", "", "name for the new project (defaults to the file name)")
	f.StringVarP(&uploadLanguage, "language", "l", "en", "project language (en, de, es, pt, fr)")
	f.BoolVar(&uploadTranslate, "translate", false, "translate answers to the project language")
	f.StringVar(&uploadEngine, "translation-engine", domain.TranslationGoogle, "translation engine (GT or DL)")
	f.StringSliceVar(&uploadAuxCols, "aux-col", nil, "auxiliary columns to carry along (default: all unmapped columns)")

	f.IntVarP(&uploadBatchSize, "batch-size", "b", 0, "rows per upload request (default 2000)")
	f.BoolVar(&uploadDryRun, "dry-run", false, "show what would be uploaded without calling the API")
	f.BoolVar(&uploadAsync, "async", false, "queue row processing server-side")
	f.BoolVar(&uploadTraining, "request-training", true, "request model training after the upload (--request-training=false to skip)")

	_ = uploadCmd.MarkFlagRequired("file")
	_ = uploadCmd.MarkFlagRequired("text-col")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	logger.Section("Loading input")
	table, err := getLoader().Load(ctx, uploadFile, driven.LoadOptions{Sheet: uploadSheet})
	if err != nil {
		return err
	}
	logger.Info("loaded %d rows, %d columns", table.NumRows(), len(table.Columns))

	spec, err := buildAssembleSpec(ctx, table)
	if err != nil {
		return err
	}

	logger.Section("Assembling rows")
	assembler := services.NewRowAssembler()
	rows, err := assembler.Assemble(table, *spec)
	if err != nil {
		return err
	}

	var api driven.CodingAPI
	if !uploadDryRun {
		if api, err = getAPI(ctx); err != nil {
			return err
		}
	}
	uploader := newUploader(api, uploadBatchSize, uploadDryRun)
	opts := driven.UploadOptions{RequestTraining: uploadTraining, Async: uploadAsync}

	logger.Section("Uploading")
	var report *domain.UploadReport
	if uploadProjectID > 0 {
		// Existing projects take rows keyed by server question id.
		if !uploadDryRun {
			questions, qerr := api.ListQuestions(ctx, uploadProjectID)
			if qerr != nil {
				return qerr
			}
			if rerr := services.RekeyAnswers(rows, questions); rerr != nil {
				return rerr
			}
		}
		report, err = uploader.Append(ctx, uploadProjectID, rows, opts)
		if err != nil {
			return err
		}
	} else {
		project, perr := buildProject(table, spec)
		if perr != nil {
			return perr
		}
		created, r, cerr := uploader.CreateWithRows(ctx, project, rows, opts)
		if cerr != nil {
			return cerr
		}
		report = r
		if created.ID != nil {
			cmd.Printf("Created project %d (%s)\n", *created.ID, created.Name)
		}
	}

	return printReport(cmd, report)
}

// buildAssembleSpec resolves the column roles, code columns and codebook
// from the flags.
func buildAssembleSpec(ctx context.Context, table *domain.Table) (*services.AssembleSpec, error) {
	if len(uploadQuestions) > 0 && len(uploadQuestions) != len(uploadTextCols) {
		return nil, fmt.Errorf("%w: %d question names for %d text columns",
			domain.ErrInvalidInput, len(uploadQuestions), len(uploadTextCols))
	}

	var (
		format   domain.CodesFormat
		codeCols []string
		cb       domain.Codebook
		err      error
	)
	wantCodes := uploadFormat != "" || len(uploadCodeCols) > 0 || uploadCodesSub != ""
	if wantCodes {
		if len(uploadTextCols) > 1 {
			return nil, fmt.Errorf("%w: code columns can only be mapped for a single question", domain.ErrInvalidInput)
		}
		if uploadFormat == "" {
			uploadFormat = string(domain.CodesBinaryGeneric)
		}
		format, err = domain.ParseCodesFormat(uploadFormat)
		if err != nil {
			return nil, err
		}

		cb, codeCols, err = resolveCodes(ctx, table, format)
		if err != nil {
			return nil, err
		}
		logger.Info("using %d code columns with a codebook of %d codes", len(codeCols), len(cb))
	}

	spec := &services.AssembleSpec{Auxiliary: uploadAuxCols}
	for i, textCol := range uploadTextCols {
		name := textCol
		if i < len(uploadQuestions) {
			name = uploadQuestions[i]
		}
		q := services.QuestionColumns{
			Question:       name,
			Text:           textCol,
			SourceLanguage: uploadLangCol,
			Reviewed:       uploadRevCol,
		}
		if wantCodes {
			q.Codes = codeCols
			q.Format = format
			q.Codebook = cb
		}
		spec.Questions = append(spec.Questions, q)
	}

	// Vendor annotation columns describe the codebook, they are not
	// respondent data. Keep them out of the default auxiliary set.
	if spec.Auxiliary == nil {
		if annotations := codebook.VendorAnnotationColumns(table); len(annotations) > 0 {
			defaults, auxErr := services.NewRowAssembler().AuxiliaryColumns(table, *spec)
			if auxErr != nil {
				return nil, auxErr
			}
			spec.Auxiliary = excludeColumns(defaults, annotations)
		}
	}
	return spec, nil
}

// resolveCodes finds the code columns and the codebook for the selected
// format.
func resolveCodes(ctx context.Context, table *domain.Table, format domain.CodesFormat) (domain.Codebook, []string, error) {
	if format == domain.CodesBinaryVendor {
		return codebook.FromVendorHeaders(table)
	}

	codeCols := uploadCodeCols
	if len(codeCols) == 0 && uploadCodesSub != "" {
		codeCols = codebook.ColumnsMatching(table, uploadCodesSub)
	}
	if len(codeCols) == 0 {
		return nil, nil, fmt.Errorf("%w: no code columns selected, use --codes-col or --codes-substring", domain.ErrInvalidInput)
	}

	if uploadCodebookFile != "" {
		cb, err := loadCodebookFile(ctx)
		return cb, codeCols, err
	}
	if format == domain.CodesBinaryGeneric {
		// Column headers double as labels, ids are positional.
		return codebook.FromHeaders(codeCols), codeCols, nil
	}
	return nil, nil, fmt.Errorf("%w: %s format needs --codebook to resolve code ids", domain.ErrInvalidInput, format)
}

// loadCodebookFile reads the codebook table and parses it using the
// configured column names.
func loadCodebookFile(ctx context.Context) (domain.Codebook, error) {
	table, err := getLoader().Load(ctx, uploadCodebookFile, driven.LoadOptions{Sheet: uploadCodebookSheet})
	if err != nil {
		return nil, err
	}
	return codebook.Parse(table, codebook.Columns{
		Label:    uploadLabelCol,
		Category: uploadCategoryCol,
		ID:       uploadIDCol,
	})
}

// buildProject builds the project payload for a fresh upload.
func buildProject(table *domain.Table, spec *services.AssembleSpec) (*domain.Project, error) {
	if err := domain.CheckLanguage(uploadLanguage); err != nil {
		return nil, err
	}

	name := uploadName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(uploadFile), filepath.Ext(uploadFile))
	}

	aux, err := services.NewRowAssembler().AuxiliaryColumns(table, *spec)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		Name:                 name,
		Language:             uploadLanguage,
		AuxiliaryColumnNames: aux,
		Translate:            uploadTranslate,
		TranslationEngine:    uploadEngine,
	}
	for _, q := range spec.Questions {
		project.Questions = append(project.Questions, domain.NewQuestion(q.Question, q.Codebook))
	}
	return project, nil
}

// printReport summarises the run. Failed batches make the command exit
// non-zero, with the row ranges spelled out for a retry.
func printReport(cmd *cobra.Command, report *domain.UploadReport) error {
	if report == nil {
		return nil
	}
	if report.DryRun {
		cmd.Printf("Dry run: %d rows in %d batches, nothing uploaded\n", report.TotalRows, len(report.Batches))
		return nil
	}

	cmd.Printf("Uploaded %d of %d rows in %d batches\n", report.RowsUploaded(), report.TotalRows, len(report.Batches))
	if report.Failed() == 0 {
		return nil
	}

	for _, b := range report.Batches {
		if b.Status == domain.BatchFailed {
			cmd.Printf("  batch %d failed (rows %d-%d): %s\n", b.Index+1, b.FirstRow, b.FirstRow+b.RowCount-1, b.Error)
		}
	}
	return fmt.Errorf("%d of %d batches failed", report.Failed(), len(report.Batches))
}

func excludeColumns(cols, drop []string) []string {
	dropSet := make(map[string]bool, len(drop))
	for _, c := range drop {
		dropSet[c] = true
	}
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if !dropSet[c] {
			out = append(out, c)
		}
	}
	return out
}
