package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hitoshi/teamcal/internal/config"
	"github.com/hitoshi/teamcal/internal/database"
	"github.com/hitoshi/teamcal/internal/repository"
	"github.com/hitoshi/teamcal/internal/roster"
	"github.com/hitoshi/teamcal/internal/security"
)

// syncOptions はsyncサブコマンドのフラグを保持する。
type syncOptions struct {
	Source     string
	Yes        bool
	AllowEmpty bool
}

// parseSyncFlags はsyncサブコマンドのフラグと位置引数を解析する。
// ソースは位置引数（sync <path|url>）または--sourceフラグで指定できる。
// 両方指定された場合と位置引数が2つ以上の場合はエラーにする。
// 誤ったソースへの同期は破壊的なため、曖昧な指定は黙って無視しない。
func parseSyncFlags(args []string, defaultSource string) (*syncOptions, error) {
	opts := &syncOptions{}

	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.StringVar(&opts.Source, "source", "", "名簿ソース（CSVファイルパスまたはHTTPS URL）")
	fs.BoolVar(&opts.Yes, "yes", false, "確認プロンプトをスキップする")
	fs.BoolVar(&opts.Yes, "y", false, "--yes の省略形")
	fs.BoolVar(&opts.AllowEmpty, "allow-empty", false, "空の名簿ソースでも同期を許可する（全メンバー削除）")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case fs.NArg() > 1:
		return nil, fmt.Errorf("名簿ソースは1つだけ指定してください: %v", fs.Args())
	case fs.NArg() == 1 && opts.Source != "":
		return nil, fmt.Errorf("名簿ソースの指定が重複しています: --source %s と %s", opts.Source, fs.Arg(0))
	case fs.NArg() == 1:
		opts.Source = fs.Arg(0)
	case opts.Source == "":
		opts.Source = defaultSource
	}

	return opts, nil
}

// runSync は外部名簿との同期を実行する。
// 計画を表示して確認を取り、適用前にpersonsテーブルのスナップショットを作成する。
func runSync(cfg *config.Config, w io.Writer, stdin io.Reader, args []string) error {
	opts, err := parseSyncFlags(args, cfg.RosterPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// 名簿の読み込み
	loader := roster.NewLoader(security.NewSSRFGuard(), cfg.RosterFetchTimeout, cfg.RosterMaxSize)
	external, err := loader.Load(ctx, opts.Source)
	if err != nil {
		return fmt.Errorf("名簿の読み込みに失敗しました: %w", err)
	}

	fmt.Fprintf(w, "名簿ソース: %s（%d件）\n", opts.Source, len(external))

	// 同期計画の構築（検証ゲート込み）
	personRepo := repository.NewPostgresPersonRepo(db)
	svc := roster.NewService(personRepo, slog.Default(), nil)

	plan, err := svc.BuildPlan(ctx, external, roster.SyncOptions{AllowEmpty: opts.AllowEmpty})
	if err != nil {
		var conflict *roster.IdentityConflictError
		if errors.As(err, &conflict) {
			printMismatches(w, conflict.Mismatches)
			return fmt.Errorf("名簿の同一性検証に失敗したため、同期を中止しました（%d件の不一致）", len(conflict.Mismatches))
		}
		if errors.Is(err, roster.ErrEmptyRoster) {
			return fmt.Errorf("名簿ソースが空です。全メンバーを削除する場合は --allow-empty を指定してください")
		}
		return err
	}

	if plan.Summary.NoOp {
		fmt.Fprintln(w, "変更はありません。")
		return nil
	}

	printPlan(w, plan)

	if !opts.Yes {
		if !confirm(w, stdin, "この変更を適用しますか?") {
			fmt.Fprintln(w, "中止しました。")
			return nil
		}
	}

	// 適用前にpersonsテーブルのスナップショットを作成する
	backup, err := database.SnapshotPersons(ctx, db)
	if err != nil {
		return fmt.Errorf("バックアップの作成に失敗しました: %w", err)
	}
	fmt.Fprintf(w, "バックアップ: %s\n", backup)

	if err := svc.Apply(ctx, plan); err != nil {
		return err
	}

	fmt.Fprintf(w, "同期が完了しました: 削除 %d / 更新 %d / 追加 %d\n",
		plan.Summary.Deleted, plan.Summary.Updated, plan.Summary.Inserted)
	return nil
}

// printMismatches は検出された全ての名前不一致を表示する。
func printMismatches(w io.Writer, mismatches []roster.Mismatch) {
	fmt.Fprintln(w, "名前の不一致が検出されました:")
	for _, m := range mismatches {
		fmt.Fprintf(w, "  id=%d: 名簿=%q 登録済み=%q\n", m.ID, m.ExternalName, m.PersistedName)
	}
}

// printPlan は同期計画の内容を表示する。
func printPlan(w io.Writer, plan *roster.Plan) {
	fmt.Fprintf(w, "同期計画: 削除 %d / 更新 %d / 追加 %d\n",
		plan.Summary.Deleted, plan.Summary.Updated, plan.Summary.Inserted)

	if len(plan.ChangeSet.DeleteIDs) > 0 {
		fmt.Fprintf(w, "  削除: %v\n", plan.ChangeSet.DeleteIDs)
	}
	for _, change := range plan.Summary.Changes {
		for _, f := range change.Fields {
			fmt.Fprintf(w, "  更新 id=%d %s: %s=%q -> %q\n", change.ID, change.Name, f.Field, f.From, f.To)
		}
	}
	for _, p := range plan.ChangeSet.Inserts {
		fmt.Fprintf(w, "  追加 id=%d %s (%s)\n", p.ID, p.Name, p.Category)
	}
}

// confirm は [y/N] 形式の確認プロンプトを表示し、yまたはyesの場合にtrueを返す。
func confirm(w io.Writer, stdin io.Reader, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
