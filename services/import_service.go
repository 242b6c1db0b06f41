package services

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eparana/eparana/db"
	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/models"
	"github.com/eparana/eparana/services/utils"
)

// VotesImportSummary reports a successful votes import.
type VotesImportSummary struct {
	Entries int `json:"entries"`
	Cities  int `json:"cities"`
}

// InvestmentImportSummary reports an investment import. Unknown cities and
// invalid rows are warnings, not failures: the valid rows still land.
type InvestmentImportSummary struct {
	Imported       int      `json:"imported"`
	CitiesNotFound []string `json:"cities_not_found,omitempty"`
	InvalidRows    []string `json:"invalid_rows,omitempty"`
	Message        string   `json:"message"`
}

// ImportService validates uploaded spreadsheets and swaps the matching
// collection wholesale. The two importers deliberately differ in strictness:
// a votes sheet must match the published template exactly and any bad row
// rejects the whole file, while investment sheets accept fuzzy headers and
// keep whatever rows survive validation.
type ImportService interface {
	ImportVotes(r io.Reader, session *Session) (*VotesImportSummary, error)
	ImportInvestments(r io.Reader, session *Session) (*InvestmentImportSummary, error)
}

type importService struct {
	voteRepo       db.VoteRepository
	investmentRepo db.InvestmentRepository
	campaignRepo   db.CampaignRepository
}

func NewImportService(voteRepo db.VoteRepository, investmentRepo db.InvestmentRepository, campaignRepo db.CampaignRepository) ImportService {
	return &importService{
		voteRepo:       voteRepo,
		investmentRepo: investmentRepo,
		campaignRepo:   campaignRepo,
	}
}

const importRejected = "A tabela não foi importada, por conta de não atender as especificações."

// ImportVotes expects exactly the three columns CIDADE, ANO and VOTOS
// (case-insensitive) and rejects the file on the first sign of trouble:
// extra columns, unknown cities or out-of-range years all abort with no
// partial write.
func (s *importService) ImportVotes(r io.Reader, session *Session) (*VotesImportSummary, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errs.New("Arquivo vazio ou sem dados (apenas cabeçalho).", http.StatusBadRequest)
	}

	header := rows[0]
	clean := 0
	idxCidade, idxAno, idxVotos := -1, -1, -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		clean++
		switch strings.ToLower(h) {
		case "cidade":
			idxCidade = i
		case "ano":
			idxAno = i
		case "votos":
			idxVotos = i
		}
	}
	if idxCidade == -1 || idxAno == -1 || idxVotos == -1 {
		return nil, errs.New(importRejected+"\n\nMotivo: As colunas obrigatórias não foram encontradas.\nEsperado: CIDADE, ANO, VOTOS.", http.StatusBadRequest)
	}
	if clean != 3 {
		return nil, errs.New(fmt.Sprintf("%s\n\nMotivo: A tabela deve conter APENAS as 3 colunas solicitadas.\nEncontradas: %d colunas.", importRejected, clean), http.StatusBadRequest)
	}

	// City names join against the registry by folded name.
	nameToSlug := make(map[string]string)
	for slug, city := range session.Cities() {
		nameToSlug[utils.Fold(city.Nome)] = slug
	}

	type voteItem struct {
		slug  string
		ano   int
		votos int
	}
	items := make([]voteItem, 0, len(rows)-1)
	var rowErrors []string

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		cityName := cell(row, idxCidade)
		if cityName == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Nome da cidade vazio.", i+1))
			continue
		}
		slug, ok := nameToSlug[utils.Fold(cityName)]
		if !ok {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Cidade %q não pertence ao cadastro do Paraná.", i+1, cityName))
			continue
		}

		ano := parseYear(cell(row, idxAno))
		if ano < 1900 || ano > 2100 {
			rowErrors = append(rowErrors, fmt.Sprintf("Linha %d: Ano inválido %q.", i+1, cell(row, idxAno)))
			continue
		}
		votos := parseIntCell(cell(row, idxVotos))
		items = append(items, voteItem{slug: slug, ano: ano, votos: votos})
	}

	if len(rowErrors) > 0 {
		msg := importRejected + "\n\nErros encontrados:\n" + strings.Join(firstN(rowErrors, 5), "\n")
		if len(rowErrors) > 5 {
			msg += fmt.Sprintf("\n...e mais %d erros.", len(rowErrors)-5)
		}
		return nil, errs.New(msg, http.StatusBadRequest)
	}
	if len(items) == 0 {
		return nil, errs.New("Nenhum dado válido encontrado para importação.", http.StatusBadRequest)
	}

	// Same city and year on several rows sum into one entry.
	votesData := make(map[string][]models.VoteEntry)
	for _, item := range items {
		entries := votesData[item.slug]
		merged := false
		for j := range entries {
			if entries[j].Ano == item.ano {
				entries[j].Votos += item.votos
				merged = true
				break
			}
		}
		if !merged {
			entries = append(entries, models.VoteEntry{Ano: item.ano, Votos: item.votos})
		}
		votesData[item.slug] = entries
	}
	for slug := range votesData {
		entries := votesData[slug]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Ano < entries[j].Ano })
		votesData[slug] = entries
	}

	if s.voteRepo != nil {
		voteRows := make([]models.Vote, 0, len(items))
		for slug, entries := range votesData {
			for _, entry := range entries {
				voteRows = append(voteRows, models.Vote{CityID: slug, Year: entry.Ano, Votes: entry.Votos})
			}
		}
		if err := s.voteRepo.ReplaceVotes(voteRows); err != nil {
			return nil, err
		}
	}

	totals := make(map[string]int, len(votesData))
	for slug, entries := range votesData {
		sum := 0
		for _, entry := range entries {
			sum += entry.Votos
		}
		totals[slug] = sum
	}

	session.ReplaceVotes(votesData)
	session.ApplyVotesField(totals)

	if s.campaignRepo != nil {
		bulk := make([]models.CampaignBulkItem, 0, len(totals))
		for slug, sum := range totals {
			bulk = append(bulk, models.CampaignBulkItem{
				CitySlug: slug,
				Votes:    sum,
				Money:    session.Totals(slug).Money,
			})
		}
		if err := s.campaignRepo.BulkUpsert(bulk); err != nil {
			return nil, err
		}
	}

	return &VotesImportSummary{Entries: len(items), Cities: len(votesData)}, nil
}

var investmentAliases = map[string][]string{
	"cidade":    {"cidade"},
	"ano":       {"ano"},
	"valor":     {"valor"},
	"area":      {"area", "área"},
	"tipo":      {"tipo"},
	"descricao": {"descri", "descrição", "descricao"},
}

// ImportInvestments matches columns loosely (folded substring match, so
// "VALOR INDICADO (R$)" still binds to valor) and imports every row that
// validates, reporting the rest as warnings.
func (s *importService) ImportInvestments(r io.Reader, session *Session) (*InvestmentImportSummary, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errs.New("Planilha vazia! Nenhum dado encontrado na planilha.", http.StatusBadRequest)
	}

	header := rows[0]
	cols := make(map[string]int)
	for key, aliases := range investmentAliases {
	find:
		for _, alias := range aliases {
			for i, h := range header {
				if h == "" {
					continue
				}
				if strings.Contains(utils.Fold(h), utils.Fold(alias)) {
					cols[key] = i
					break find
				}
			}
		}
	}

	var missing []string
	if _, ok := cols["cidade"]; !ok {
		missing = append(missing, "CIDADE")
	}
	if _, ok := cols["ano"]; !ok {
		missing = append(missing, "ANO")
	}
	if _, ok := cols["valor"]; !ok {
		missing = append(missing, "VALOR INDICADO")
	}
	if len(missing) > 0 {
		found := make([]string, 0, len(header))
		for _, h := range header {
			if strings.TrimSpace(h) != "" {
				found = append(found, strings.TrimSpace(h))
			}
		}
		msg := fmt.Sprintf("Colunas obrigatórias não encontradas!\n\nColunas faltando: %s\n\nColunas encontradas na planilha:\n%s\n\nVerifique se a primeira linha da planilha contém os cabeçalhos corretos.",
			strings.Join(missing, ", "), strings.Join(found, ", "))
		return nil, errs.New(msg, http.StatusBadRequest)
	}

	cities := session.Cities()
	nameToSlug := make(map[string]string, len(cities))
	for slug, city := range cities {
		nameToSlug[utils.Fold(city.Nome)] = slug
	}

	var (
		records     []models.InvestmentRecord
		invalidRows []string
		notFound    []string
		seenMissing = make(map[string]bool)
	)

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		cityName := cell(row, cols["cidade"])
		anoRaw := cell(row, cols["ano"])
		valorRaw := cell(row, cols["valor"])
		if cityName == "" && anoRaw == "" && valorRaw == "" {
			continue
		}

		if cityName == "" {
			invalidRows = append(invalidRows, fmt.Sprintf("Linha %d: Nome da cidade vazio", i+1))
			continue
		}
		ano := parseYear(anoRaw)
		if ano == 0 || ano < 1900 || ano > 2100 {
			invalidRows = append(invalidRows, fmt.Sprintf("Linha %d (%s): Ano inválido %q", i+1, cityName, anoRaw))
			continue
		}
		valor := parseCurrency(valorRaw)
		if valor <= 0 {
			invalidRows = append(invalidRows, fmt.Sprintf("Linha %d (%s): Valor inválido %q", i+1, cityName, valorRaw))
			continue
		}

		slug, ok := nameToSlug[utils.Fold(cityName)]
		if !ok {
			if !seenMissing[cityName] {
				seenMissing[cityName] = true
				notFound = append(notFound, cityName)
			}
			continue
		}

		record := models.InvestmentRecord{
			CityID:   slug,
			CityName: cities[slug].Nome,
			Ano:      ano,
			Valor:    valor,
		}
		if idx, ok := cols["area"]; ok {
			record.Area = cell(row, idx)
		}
		if idx, ok := cols["tipo"]; ok {
			record.Tipo = cell(row, idx)
		}
		if idx, ok := cols["descricao"]; ok {
			record.Descricao = cell(row, idx)
		}
		records = append(records, record)
	}

	summary := &InvestmentImportSummary{
		Imported:       len(records),
		CitiesNotFound: notFound,
		InvalidRows:    invalidRows,
		Message:        buildInvestmentMessage(len(records), notFound, invalidRows),
	}

	if len(records) == 0 {
		return summary, nil
	}

	if s.investmentRepo != nil {
		dbRows := make([]models.Investment, 0, len(records))
		for _, record := range records {
			row := models.Investment{
				CityID:   record.CityID,
				CityName: record.CityName,
				Year:     record.Ano,
				Value:    record.Valor,
			}
			if record.Area != "" {
				area := record.Area
				row.Area = &area
			}
			if record.Tipo != "" {
				tipo := record.Tipo
				row.Type = &tipo
			}
			if record.Descricao != "" {
				desc := record.Descricao
				row.Description = &desc
			}
			dbRows = append(dbRows, row)
		}
		if err := s.investmentRepo.ReplaceInvestments(dbRows); err != nil {
			return nil, err
		}
	}

	moneyByCity := make(map[string]float64)
	for _, record := range records {
		moneyByCity[record.CityID] += record.Valor
	}
	session.ReplaceInvestments(records)
	session.ApplyMoneyField(moneyByCity)

	return summary, nil
}

func buildInvestmentMessage(imported int, notFound, invalidRows []string) string {
	var b strings.Builder
	if imported > 0 {
		fmt.Fprintf(&b, "%d investimentos importados com sucesso. (Os dados anteriores foram sobrescritos)", imported)
	} else {
		b.WriteString("Nenhum investimento foi importado.")
	}
	if len(notFound) > 0 {
		fmt.Fprintf(&b, "\nCidades não encontradas (%d): %s", len(notFound), strings.Join(firstN(notFound, 10), ", "))
		if len(notFound) > 10 {
			b.WriteString("...")
		}
	}
	if len(invalidRows) > 0 {
		fmt.Fprintf(&b, "\nLinhas com erro (%d):\n%s", len(invalidRows), strings.Join(firstN(invalidRows, 5), "\n"))
		if len(invalidRows) > 5 {
			b.WriteString("\n...")
		}
	}
	return b.String()
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errs.New("Ocorreu um erro ao processar o arquivo Excel.", http.StatusBadRequest)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.New("Planilha vazia! Nenhum dado encontrado na planilha.", http.StatusBadRequest)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errs.New("Ocorreu um erro ao processar o arquivo Excel.", http.StatusBadRequest)
	}
	return rows, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseYear(s string) int {
	return parseIntCell(s)
}

func parseIntCell(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

var thousandsOnly = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// parseCurrency reads both spreadsheet-native numbers ("50000.5") and
// Brazilian-formatted text ("1.000,50").
func parseCurrency(s string) float64 {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return 0
	}
	if strings.Contains(s, ",") || thousandsOnly.MatchString(s) {
		return utils.ParseBrazilianNumber(s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return utils.ParseBrazilianNumber(s)
	}
	return f
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
