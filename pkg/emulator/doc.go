// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package emulator transforma arquivos de rota declarativos (YAML ou JSON) em
// handlers HTTP, servindo dados das coleções geradas pelo fake API server.
//
// Visão Geral:
// Cada arquivo dentro do diretório da API representa uma rota. O caminho do
// arquivo define o template (ex: `users/_id.yaml` -> `/users/:id`) e o
// conteúdo define, por verbo HTTP, como responder. Nenhum código Go precisa
// ser escrito para cada endpoint.
//
// Funcionalidades Principais:
//   - Respostas estáticas: status, headers e body fixos.
//   - Respostas dinâmicas: dados vindos de uma coleção (ou inline) filtrados
//     por `path_params` e `query_params`.
//   - Respostas condicionais: "Match" (dado encontrado) e "No Match" (404).
//   - Simulação de latência através de `delay`.
//
// Exemplo de arquivo (api/users/_id.yaml):
//
//	get:
//	  collection: users
//	  path_params:
//	    - name: id
//	      maps_to: id
//	  response_on_no_match:
//	    status: 404
//	    body: "User not found."
//	delete:
//	  response:
//	    status: 204
//
// Chaves que não são objetos (ex: `description: "..."`) são expostas como
// bindings comuns e ignoradas no mapeamento de rotas. `maps_to` aceita
// caminhos aninhados, como `address.city` ou `tags[0]`.
package emulator
